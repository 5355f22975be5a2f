package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestShutdown_RunsFunctionsInReverseOrder(t *testing.T) {
	h := New(time.Second)

	var order []string
	h.Register(func(ctx context.Context) error {
		order = append(order, "database")
		return nil
	})
	h.Register(func(ctx context.Context) error {
		order = append(order, "server")
		return nil
	})

	if err := h.Shutdown(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(order) != 2 || order[0] != "server" || order[1] != "database" {
		t.Errorf("expected [server database], got %v", order)
	}
}

func TestShutdown_ReturnsFirstErrorButRunsAll(t *testing.T) {
	h := New(time.Second)

	firstErr := errors.New("server close failed")
	databaseRan := false

	h.Register(func(ctx context.Context) error {
		databaseRan = true
		return errors.New("database close failed")
	})
	h.Register(func(ctx context.Context) error {
		return firstErr
	})

	err := h.Shutdown()
	if err != firstErr {
		t.Errorf("expected first error, got %v", err)
	}
	if !databaseRan {
		t.Error("expected later functions to run despite earlier error")
	}
}

func TestShutdown_IsIdempotent(t *testing.T) {
	h := New(time.Second)

	calls := 0
	h.Register(func(ctx context.Context) error {
		calls++
		return nil
	})

	if err := h.Shutdown(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := h.Shutdown(); err != nil {
		t.Fatalf("expected no error on repeat shutdown, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected functions to run once, got %d", calls)
	}
}

func TestTrigger_UnblocksWait(t *testing.T) {
	h := New(time.Second)

	ran := make(chan struct{})
	h.Register(func(ctx context.Context) error {
		close(ran)
		return nil
	})

	done := make(chan error, 1)
	go func() {
		done <- h.Wait()
	}()

	// Give Wait a moment to install the signal handler.
	time.Sleep(10 * time.Millisecond)
	h.Trigger()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Trigger")
	}

	select {
	case <-ran:
	default:
		t.Error("expected registered function to run")
	}
}
