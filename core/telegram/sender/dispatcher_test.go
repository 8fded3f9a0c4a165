package sender

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func testOptions() Options {
	return Options{
		QueueSize:    8,
		Workers:      1,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
		MaxDuration:  time.Second,
	}
}

func TestDispatcherRetriesTransientFailure(t *testing.T) {
	d := NewDispatcher(testOptions())

	var calls atomicInt
	done := make(chan struct{})
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		if calls.inc() == 1 {
			return timeoutError{}
		}
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not complete")
	}
	d.Close()

	if got := calls.load(); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
	if d.ErrorCount() != 0 {
		t.Fatalf("error count = %d, want 0", d.ErrorCount())
	}
}

func TestDispatcherDoesNotRetryPermanentFailure(t *testing.T) {
	d := NewDispatcher(testOptions())

	var calls atomicInt
	if err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		calls.inc()
		return errors.New("bad request")
	}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	d.Close()

	if got := calls.load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
	if d.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", d.ErrorCount())
	}
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(testOptions())
	d.Close()
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

type atomicInt struct{ n int64 }

func (a *atomicInt) inc() int64  { return atomic.AddInt64(&a.n, 1) }
func (a *atomicInt) load() int64 { return atomic.LoadInt64(&a.n) }
