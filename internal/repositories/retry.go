package repositories

import (
	"fmt"
	"strings"
	"time"
)

// transientMarkers are substrings of driver errors worth retrying:
// lock contention and serialization failures clear on their own.
var transientMarkers = []string{
	"database is locked",
	"deadlock detected",
	"could not serialize access",
	"lock timeout",
	"connection reset",
}

func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// RetryPolicy retries a storage operation on transient errors with
// linear backoff. Non-transient errors abort immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}
}

func (p RetryPolicy) Do(fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if attempt < p.MaxAttempts {
			time.Sleep(p.BaseDelay * time.Duration(attempt))
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", p.MaxAttempts, lastErr)
}
