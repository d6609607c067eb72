package provider

// Expectation names the success literal of one operation and the error
// raised when it is not met.
type Expectation struct {
	Message      string
	ErrorMessage string
	ErrorCode    int
}

// AssertSuccess compares body's message with the expected literal using exact
// string equality. The boolean status field is not consulted. On mismatch it
// returns a *GatewayError whose context holds the actual message merged with
// extra; on match it returns nil and has no other effect.
func AssertSuccess(body Body, want Expectation, extra map[string]any) error {
	actual := body.Message()
	if actual == want.Message {
		return nil
	}

	ctx := make(map[string]any, len(extra)+1)
	ctx["message"] = actual
	for k, v := range extra {
		ctx[k] = v
	}
	return &GatewayError{Message: want.ErrorMessage, Code: want.ErrorCode, Context: ctx}
}
