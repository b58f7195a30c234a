package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	rejected := ""
	b := NewBulkhead(BulkheadConfig{Name: "whisperx", MaxConcurrent: 1, OnReject: func(n string) { rejected = n }})

	hold := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Execute(context.Background(), func() error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	if b.InUse() != 1 || b.Available() != 0 {
		t.Errorf("expected one slot in use, got in_use=%d available=%d", b.InUse(), b.Available())
	}
	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
	if rejected != "whisperx" {
		t.Errorf("expected OnReject for whisperx, got %q", rejected)
	}

	close(hold)
	if err := <-done; err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if b.InUse() != 0 {
		t.Errorf("slot not released")
	}
}

func TestBulkhead_WaitsForSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: time.Second})

	started := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func() error {
			close(started)
			time.Sleep(10 * time.Millisecond)
			return nil
		})
	}()
	<-started

	if err := b.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("expected to acquire after wait, got %v", err)
	}
}

func TestBulkhead_WaitTimeoutAndCancel(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: 5 * time.Millisecond})
	b.sem <- struct{}{}

	if err := b.Execute(context.Background(), func() error { return nil }); !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}

	b.config.MaxWait = time.Minute
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Execute(ctx, func() error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
