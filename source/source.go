// Package source chooses and activates one provider×quality stream option
// among the ones listed on a target page.
package source

import (
	"errors"
	"fmt"
	"time"

	"github.com/whisper-darkly/stream-scout/browser"
	"github.com/whisper-darkly/stream-scout/logger"
)

// ErrNoOptionMatched means no source option could be found or clicked.
// Non-fatal: the target is skipped.
var ErrNoOptionMatched = errors.New("no stream option selected")

// Provider identifies a known stream host listed on the page.
type Provider string

const (
	Vidhide  Provider = "vidhide"
	Filemoon Provider = "filemoon"
	Voesx    Provider = "voesx"

	// Netu exposes its stream URL directly as a frame target instead of
	// through a network request, so its discovery path differs downstream.
	Netu Provider = "netu"
)

// Quality is the advertised stream quality of an option.
type Quality string

const (
	HD  Quality = "HD"
	CAM Quality = "CAM"
)

// Option is one provider×quality pair on the page.
type Option struct {
	Provider Provider
	Quality  Quality
}

// Label is the visible text of the option on the page, e.g. "vidhide - HD".
func (o Option) Label() string {
	return fmt.Sprintf("%s - %s", o.Provider, o.Quality)
}

// XPath locates the option by its visible label text.
func (o Option) XPath() string {
	return fmt.Sprintf("//span[contains(text(), '%s')]", o.Label())
}

// Special reports whether this option's stream discovery path differs from
// the network-log harvest (see harvest special-provider mode).
func (o Option) Special() bool {
	return o.Provider == Netu
}

// defaultOrder is the fixed attempt order when no restriction flags are set:
// all HD options before all CAM options, providers in declared order.
var defaultOrder = []Option{
	{Vidhide, HD}, {Filemoon, HD}, {Voesx, HD},
	{Vidhide, CAM}, {Filemoon, CAM}, {Voesx, CAM},
}

// Config restricts which options are attempted. All-false means "try every
// known pair in the fixed default order"; any true field restricts the
// attempt set to exactly the true entries, keeping the same relative order.
type Config struct {
	VidhideHD   bool
	FilemoonHD  bool
	VoesxHD     bool
	VidhideCAM  bool
	FilemoonCAM bool
	VoesxCAM    bool
}

func (c Config) enabled(o Option) bool {
	switch o {
	case Option{Vidhide, HD}:
		return c.VidhideHD
	case Option{Filemoon, HD}:
		return c.FilemoonHD
	case Option{Voesx, HD}:
		return c.VoesxHD
	case Option{Vidhide, CAM}:
		return c.VidhideCAM
	case Option{Filemoon, CAM}:
		return c.FilemoonCAM
	case Option{Voesx, CAM}:
		return c.VoesxCAM
	}
	return false
}

// Restricted reports whether any restriction flag is set.
func (c Config) Restricted() bool {
	return c.VidhideHD || c.FilemoonHD || c.VoesxHD ||
		c.VidhideCAM || c.FilemoonCAM || c.VoesxCAM
}

// AttemptList builds the ordered list of options to try.
func (c Config) AttemptList() []Option {
	if !c.Restricted() {
		out := make([]Option, len(defaultOrder))
		copy(out, defaultOrder)
		return out
	}
	var out []Option
	for _, o := range defaultOrder {
		if c.enabled(o) {
			out = append(out, o)
		}
	}
	return out
}

// Selector activates one source option on a live page.
type Selector struct {
	WaitTimeout time.Duration // per-option element wait, default 20s
	SettleDelay time.Duration // post-click settle, default 8s

	Log *logger.Logger

	sleep func(time.Duration) // test seam
}

// NewSelector creates a Selector with the fixed default timing.
func NewSelector(log *logger.Logger) *Selector {
	return &Selector{
		WaitTimeout: 20 * time.Second,
		SettleDelay: 8 * time.Second,
		Log:         log,
		sleep:       time.Sleep,
	}
}

// Select tries each option in cfg's attempt order, clicking the first one
// that is present and visible, then waits the settle delay. When the attempt
// list was explicitly restricted and nothing matched, it fails without
// falling back to the unrestricted order.
func (s *Selector) Select(sess *browser.Session, cfg Config) (Option, error) {
	attempts := cfg.AttemptList()
	if len(attempts) == 0 {
		return Option{}, ErrNoOptionMatched
	}

	for _, opt := range attempts {
		s.Log.Info("looking for %s option: %s", opt.Quality, opt.Label())
		el, err := sess.WaitVisibleX(opt.XPath(), s.WaitTimeout)
		if err != nil {
			s.Log.Warn("option %q not available: %v", opt.Label(), err)
			continue
		}
		if err := sess.ClickWithRetry(el, 3, 2*time.Second); err != nil {
			s.Log.Warn("could not click option %q: %v", opt.Label(), err)
			continue
		}
		s.sleep(s.SettleDelay)
		s.Log.Info("selected option %q", opt.Label())
		return opt, nil
	}
	return Option{}, ErrNoOptionMatched
}
