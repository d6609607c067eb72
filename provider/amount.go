package provider

import (
	"github.com/shopspring/decimal"
)

// Amount is a decimal currency amount (e.g. 1000.50 NGN) that is sent to
// providers as a bare JSON number rather than the quoted string
// decimal.Decimal produces by default.
type Amount struct {
	decimal.Decimal
}

// NewAmount parses a decimal amount such as "1000" or "25.50".
func NewAmount(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

// AmountFromFloat converts a float amount.
func AmountFromFloat(value float64) Amount {
	return Amount{decimal.NewFromFloat(value)}
}

// MarshalJSON emits the amount unquoted.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}
