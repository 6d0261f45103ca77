package browser

import (
	"errors"
	"fmt"
	"time"
)

// ErrSessionStart means the underlying browser instance could not be
// launched or connected to. Fatal for the current target.
var ErrSessionStart = errors.New("browser session could not be started")

// WaitTimeoutError reports that an expected element never became present
// and visible within its deadline.
type WaitTimeoutError struct {
	Selector string
	Timeout  time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s waiting for element %q", e.Timeout, e.Selector)
}

// IsWaitTimeout reports whether err is (or wraps) a WaitTimeoutError.
func IsWaitTimeout(err error) bool {
	var wt *WaitTimeoutError
	return errors.As(err, &wt)
}
