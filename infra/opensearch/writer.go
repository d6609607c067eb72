package opensearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

const (
	defaultBufferSize   = 1024
	defaultIndexTimeout = 5 * time.Second
)

var errWriterClosed = errors.New("opensearch writer is closed")

// Writer ships zerolog JSON events to OpenSearch. Events are indexed by a
// background goroutine so logging never waits on the network; when the
// buffer is full new events are dropped and counted.
type Writer struct {
	client  *Client
	events  chan []byte
	done    chan struct{}
	timeout time.Duration

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool

	dropped atomic.Int64
	failed  atomic.Int64
}

// NewWriter starts a writer with room for bufferSize pending events.
func NewWriter(client *Client, bufferSize int) *Writer {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	w := &Writer{
		client:  client,
		events:  make(chan []byte, bufferSize),
		done:    make(chan struct{}),
		timeout: defaultIndexTimeout,
	}
	go w.run()
	return w
}

// Write queues one event. p is copied because zerolog reuses its buffer.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return 0, errWriterClosed
	}

	event := make([]byte, len(p))
	copy(event, p)

	select {
	case w.events <- event:
	default:
		w.dropped.Add(1)
	}
	return len(p), nil
}

// Close stops accepting events and waits until the queued ones are indexed.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.events)
		w.mu.Unlock()
		<-w.done
	})
	return nil
}

// Dropped returns how many events were discarded because the buffer was full.
func (w *Writer) Dropped() int64 {
	return w.dropped.Load()
}

// Failed returns how many events OpenSearch rejected or could not receive.
func (w *Writer) Failed() int64 {
	return w.failed.Load()
}

func (w *Writer) run() {
	defer close(w.done)
	for event := range w.events {
		if err := w.index(event); err != nil {
			w.failed.Add(1)
		}
	}
}

func (w *Writer) index(event []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	req := opensearchapi.IndexRequest{
		Index: w.client.index,
		Body:  bytes.NewReader(event),
	}

	res, err := req.Do(ctx, w.client.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.IsError() {
		return fmt.Errorf("failed to index log event: %s", res.Status())
	}
	return nil
}
