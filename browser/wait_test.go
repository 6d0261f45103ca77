package browser

import (
	"errors"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
)

func TestRetryOnSucceedsAfterRetries(t *testing.T) {
	retriable := errors.New("transient")
	calls := 0
	err := RetryOn(func(err error) bool { return errors.Is(err, retriable) }, 3, 0, func() error {
		calls++
		if calls < 3 {
			return retriable
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryOnNonMatchingPropagatesImmediately(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	err := RetryOn(func(error) bool { return false }, 5, 0, func() error {
		calls++
		return fatal
	})
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls, "a non-matching failure must not retry")
}

func TestRetryOnExhaustionReturnsFinalError(t *testing.T) {
	retriable := errors.New("transient")
	calls := 0
	err := RetryOn(func(error) bool { return true }, 3, 0, func() error {
		calls++
		return retriable
	})
	assert.ErrorIs(t, err, retriable)
	assert.Equal(t, 3, calls)
}

func TestIsClickIntercepted(t *testing.T) {
	assert.True(t, IsClickIntercepted(&rod.NotInteractableError{}))
	assert.False(t, IsClickIntercepted(errors.New("connection refused")))
	assert.False(t, IsClickIntercepted(nil))
}

func TestIsWaitTimeout(t *testing.T) {
	err := error(&WaitTimeoutError{Selector: "div.x", Timeout: 20 * time.Second})
	assert.True(t, IsWaitTimeout(err))
	assert.Contains(t, err.Error(), "div.x")
	assert.False(t, IsWaitTimeout(errors.New("other")))
}
