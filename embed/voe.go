package embed

import (
	"fmt"
	"strings"
	"time"

	"github.com/whisper-darkly/stream-scout/browser"
	"github.com/whisper-darkly/stream-scout/logger"
)

func init() {
	Register(&Voe{
		logoSelector: `img.icon[src="/s/images/logos/voe-logo-2.svg"]`,
		sleep:        time.Sleep,
	})
}

// Voe resolves the logo-click embed pattern: navigate to the frame target,
// click the provider logo, and return the resulting URL unconditionally —
// there is no redirect countdown to poll.
type Voe struct {
	logoSelector string
	sleep        func(time.Duration)
}

func (v *Voe) Name() string { return "voe" }

func (v *Voe) Match(src string) bool {
	return strings.Contains(src, "voe.sx")
}

func (v *Voe) Resolve(sess *browser.Session, src string, log *logger.Logger) (Outcome, error) {
	if err := sess.Navigate(src); err != nil {
		return Outcome{}, err
	}
	v.sleep(3 * time.Second)

	logo, err := sess.WaitVisible(v.logoSelector, 10*time.Second)
	if err != nil {
		return Outcome{}, fmt.Errorf("voe logo: %w", err)
	}
	log.Info("found voe logo, clicking...")
	if err := sess.ScriptClick(logo); err != nil {
		return Outcome{}, fmt.Errorf("click voe logo: %w", err)
	}

	v.sleep(3 * time.Second)
	url := sess.CurrentURL()
	return Outcome{Redirected: true, URL: url}, nil
}
