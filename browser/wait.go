package browser

import (
	"errors"
	"time"

	"github.com/go-rod/rod"
)

// WaitVisible polls for an element matching the CSS selector to exist and be
// visible, failing with a WaitTimeoutError once the deadline passes.
func (s *Session) WaitVisible(selector string, timeout time.Duration) (*rod.Element, error) {
	el, err := s.page.Timeout(timeout).Element(selector)
	if err != nil {
		return nil, &WaitTimeoutError{Selector: selector, Timeout: timeout}
	}
	if err := el.Timeout(timeout).WaitVisible(); err != nil {
		return nil, &WaitTimeoutError{Selector: selector, Timeout: timeout}
	}
	return el, nil
}

// WaitVisibleX is WaitVisible for an XPath expression.
func (s *Session) WaitVisibleX(xpath string, timeout time.Duration) (*rod.Element, error) {
	el, err := s.page.Timeout(timeout).ElementX(xpath)
	if err != nil {
		return nil, &WaitTimeoutError{Selector: xpath, Timeout: timeout}
	}
	if err := el.Timeout(timeout).WaitVisible(); err != nil {
		return nil, &WaitTimeoutError{Selector: xpath, Timeout: timeout}
	}
	return el, nil
}

// RetryOn wraps op with bounded retries. A failure matching the predicate
// sleeps delay and retries, up to attempts total tries; the final failure is
// re-raised unchanged. A non-matching failure propagates immediately.
func RetryOn(match func(error) bool, attempts int, delay time.Duration, op func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = op()
		if err == nil {
			return nil
		}
		if !match(err) {
			return err
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}

// ScriptClick scrolls the element into view and clicks it at the script
// level. Overlays that would swallow a native pointer click do not intercept
// a DOM-level click.
func (s *Session) ScriptClick(el *rod.Element) error {
	_, err := el.Eval(`() => {
		this.scrollIntoView({behavior: 'instant', block: 'center'});
		this.click();
	}`)
	return err
}

// ClickWithRetry clicks el via ScriptClick, retrying only on interception
// signals. attempts<=0 and delay<=0 fall back to 3 tries, 2s apart.
func (s *Session) ClickWithRetry(el *rod.Element, attempts int, delay time.Duration) error {
	if attempts <= 0 {
		attempts = 3
	}
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return RetryOn(IsClickIntercepted, attempts, delay, func() error {
		err := s.ScriptClick(el)
		if err != nil {
			s.log.Warn("session %s: click intercepted or failed, may retry: %v", s.ID, err)
		}
		return err
	})
}

// IsClickIntercepted reports whether err is one of the transient overlay
// interference conditions worth retrying.
func IsClickIntercepted(err error) bool {
	var covered *rod.CoveredError
	var notInteractable *rod.NotInteractableError
	var invisible *rod.InvisibleShapeError
	var noPointer *rod.NoPointerEventsError
	return errors.As(err, &covered) ||
		errors.As(err, &notInteractable) ||
		errors.As(err, &invisible) ||
		errors.As(err, &noPointer)
}
