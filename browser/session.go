package browser

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/google/uuid"

	"github.com/whisper-darkly/stream-scout/logger"
)

// DesktopUserAgent is the stable fingerprint presented to every page.
// Matching a common desktop Chrome build keeps the automated session
// indistinguishable from a regular visitor at the UA level.
const DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Config holds the parameters for one browser session.
type Config struct {
	Headless       bool
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	PageTimeout    time.Duration // page-load ceiling for Open and Navigate

	Log *logger.Logger
}

// DefaultConfig returns the standard headless configuration.
func DefaultConfig(log *logger.Logger) Config {
	return Config{
		Headless:       true,
		UserAgent:      DesktopUserAgent,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		PageTimeout:    120 * time.Second,
		Log:            log,
	}
}

// Session owns one browser instance pointed at one target page. It is
// exclusively owned by the caller from Open until Close; Close must run on
// every exit path.
type Session struct {
	ID string

	cfg      Config
	log      *logger.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	mu        sync.Mutex
	responses []string // URLs from Network.responseReceived, in arrival order
}

// Open launches a stealth browser, configures its fingerprint, and navigates
// to targetURL. A launch or connect failure wraps ErrSessionStart.
func Open(targetURL string, cfg Config) (*Session, error) {
	if cfg.ViewportWidth == 0 {
		cfg.ViewportWidth = 1920
	}
	if cfg.ViewportHeight == 0 {
		cfg.ViewportHeight = 1080
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DesktopUserAgent
	}
	if cfg.PageTimeout == 0 {
		cfg.PageTimeout = 120 * time.Second
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Set("window-size", fmt.Sprintf("%d,%d", cfg.ViewportWidth, cfg.ViewportHeight)).
		Set("disable-gpu").
		Set("disable-extensions").
		Set("disable-popup-blocking").
		Set("disable-notifications").
		Set("ignore-certificate-errors").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch: %v", ErrSessionStart, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("%w: connect: %v", ErrSessionStart, err)
	}

	// stealth.Page installs the navigator.webdriver suppression and the rest
	// of the evasion scripts before any target document loads.
	page, err := stealth.Page(b)
	if err != nil {
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("%w: stealth page: %v", ErrSessionStart, err)
	}

	s := &Session{
		ID:       uuid.NewString(),
		cfg:      cfg,
		log:      cfg.Log,
		launcher: l,
		browser:  b,
		page:     page,
	}

	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: enable network events: %v", ErrSessionStart, err)
	}
	if err := (proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}).Call(page); err != nil {
		s.log.Warn("session %s: user-agent override failed: %v", s.ID, err)
	}
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.ViewportWidth,
		Height:            cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		s.log.Warn("session %s: viewport override failed: %v", s.ID, err)
	}

	// Accumulate every response URL for the harvester. The stream survives
	// page navigations because it is bound to the target, not the document.
	go page.EachEvent(func(ev *proto.NetworkResponseReceived) {
		if ev.Response == nil {
			return
		}
		s.mu.Lock()
		s.responses = append(s.responses, ev.Response.URL)
		s.mu.Unlock()
	})()

	s.log.Event("SESSION START",
		logger.KV{Key: "session", Value: s.ID},
		logger.KV{Key: "url", Value: targetURL})
	if err := s.Navigate(targetURL); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Navigate loads a URL in the session's page and waits for the load event,
// both bounded by the configured page timeout.
func (s *Session) Navigate(url string) error {
	if err := s.page.Timeout(s.cfg.PageTimeout).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := s.page.Timeout(s.cfg.PageTimeout).WaitLoad(); err != nil {
		return &WaitTimeoutError{Selector: "page load of " + url, Timeout: s.cfg.PageTimeout}
	}
	return nil
}

// Page exposes the underlying rod page for element-level interaction.
func (s *Session) Page() *rod.Page {
	return s.page
}

// CurrentURL returns the page's current URL, or "" if it cannot be read.
func (s *Session) CurrentURL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// ResponseURLs returns a snapshot of all network response URLs observed so
// far, in arrival order.
func (s *Session) ResponseURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.responses))
	copy(out, s.responses)
	return out
}

// Eval runs a JS function on the page and discards the result. Best-effort
// helpers (overlay removal) use this.
func (s *Session) Eval(js string) error {
	_, err := s.page.Eval(js)
	return err
}

// Close tears down the page, browser, and launcher state. Safe to call once
// on every exit path; errors are logged, never returned.
func (s *Session) Close() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.log.Debug("session %s: page close: %v", s.ID, err)
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.log.Debug("session %s: browser close: %v", s.ID, err)
		}
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
	s.log.Info("session %s: closed", s.ID)
}
