package embed

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/whisper-darkly/stream-scout/browser"
	"github.com/whisper-darkly/stream-scout/logger"
)

func init() {
	Register(&PlayerHost{
		playSelector: `img[src="play.png"][alt="Reproducir"][id="start"]`,
		pollSeconds:  30,
		sleep:        time.Sleep,
	})
}

// PlayerHost resolves the redirect-poll embed pattern: navigate to the
// player frame, click its play control, then poll the page URL once per
// second until the countdown redirect fires.
type PlayerHost struct {
	playSelector string
	pollSeconds  int
	sleep        func(time.Duration)
}

func (p *PlayerHost) Name() string { return "playerhost" }

func (p *PlayerHost) Match(src string) bool {
	return strings.Contains(src, "player.cuevana3.eu/player.php")
}

func (p *PlayerHost) Resolve(sess *browser.Session, src string, log *logger.Logger) (Outcome, error) {
	if err := sess.Navigate(src); err != nil {
		return Outcome{}, err
	}
	p.sleep(3 * time.Second)

	log.Info("looking for play button...")
	play, err := sess.WaitVisible(p.playSelector, 10*time.Second)
	if err != nil {
		return Outcome{}, fmt.Errorf("play button: %w", err)
	}

	if err := sess.ScriptClick(play); err != nil {
		// Some player builds swallow DOM-level clicks; fall back to a
		// native pointer click.
		log.Warn("script click failed, trying native click: %v", err)
		if err := play.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return Outcome{}, fmt.Errorf("click play button: %w", err)
		}
	}

	log.Info("waiting for redirect...")
	url, elapsed, ok := pollForRedirect(sess.CurrentURL, src, p.pollSeconds, p.sleep)
	if !ok {
		log.Warn("no redirect after %d seconds", p.pollSeconds)
		return Outcome{}, nil
	}
	log.Info("redirected after %d seconds to %s", elapsed, url)
	return Outcome{Redirected: true, URL: url, Elapsed: time.Duration(elapsed) * time.Second}, nil
}

// pollForRedirect checks the current URL once per second for up to window
// seconds, returning the new URL and the elapsed seconds as soon as it
// differs from playerURL.
func pollForRedirect(currentURL func() string, playerURL string, window int, sleep func(time.Duration)) (string, int, bool) {
	for elapsed := 0; elapsed < window; elapsed++ {
		if cur := currentURL(); cur != "" && cur != playerURL {
			return cur, elapsed, true
		}
		sleep(time.Second)
	}
	return "", 0, false
}
