package repositories

import (
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterTransientError(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0
	err := p.Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryAbortsOnPermanentError(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0
	permanent := errors.New("duplicate key value violates unique constraint")
	err := p.Do(func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}
	calls := 0
	err := p.Do(func() error {
		calls++
		return errors.New("deadlock detected")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestIsTransient(t *testing.T) {
	if IsTransient(nil) {
		t.Fatal("nil error must not be transient")
	}
	if !IsTransient(errors.New("pq: deadlock detected")) {
		t.Fatal("deadlock should be transient")
	}
	if IsTransient(errors.New("record not found")) {
		t.Fatal("not found must not be transient")
	}
}
