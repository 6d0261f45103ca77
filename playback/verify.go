package playback

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/whisper-darkly/stream-scout/logger"
)

// ErrExhausted means every candidate was rejected by playback verification.
var ErrExhausted = errors.New("no candidate survived playback verification")

// excludedDomains are known-bad distribution hosts filtered out before
// verification begins, unconditionally.
var excludedDomains = []string{
	"swiftplayers.com/stream/",
	"jonathansociallike.com",
}

// FilterExcluded drops candidates from known-bad domains, keeping order.
func FilterExcluded(links []string) []string {
	var out []string
	for _, l := range links {
		bad := false
		for _, d := range excludedDomains {
			if strings.Contains(l, d) {
				bad = true
				break
			}
		}
		if !bad {
			out = append(out, l)
		}
	}
	return out
}

// Mode selects how a surviving player is confirmed.
type Mode int

const (
	// Automated confirms via timed liveness checkpoints, then terminates
	// the player.
	Automated Mode = iota
	// Interactive confirms via a yes/no prompt; a confirmed player is
	// left running.
	Interactive
)

// Result reports the outcome for the one link that verified.
type Result struct {
	Link     string
	Verified bool
}

// Verifier walks an ordered candidate sequence, launching the external
// player for each and watching its liveness. The player process is owned
// exclusively for the duration of one candidate's check and is terminated
// before reporting success (automated mode) or advancing past a rejection.
type Verifier struct {
	Launcher Launcher
	Mode     Mode
	Log      *logger.Logger
	In       io.Reader    // interactive confirmations; default os.Stdin
	Probe    func(string) // optional pre-launch candidate classification

	// One scanner for the lifetime of the verifier: a scanner buffers
	// read-ahead from In, so building a fresh one per prompt would lose
	// input already consumed by its predecessor.
	scanner *bufio.Scanner

	startup time.Duration // wait before the first liveness check, 5s
	window1 time.Duration // first observation window, 15s
	window2 time.Duration // second observation window, 10s
	sleep   func(time.Duration)
}

// NewVerifier creates a Verifier with the fixed observation windows.
func NewVerifier(l Launcher, mode Mode, log *logger.Logger) *Verifier {
	return &Verifier{
		Launcher: l,
		Mode:     mode,
		Log:      log,
		In:       os.Stdin,
		startup:  5 * time.Second,
		window1:  15 * time.Second,
		window2:  10 * time.Second,
		sleep:    time.Sleep,
	}
}

// Verify tries each candidate in order until one sustains playback.
func (v *Verifier) Verify(links []string) (Result, error) {
	filtered := FilterExcluded(links)
	if len(filtered) == 0 {
		v.Log.Error("no valid candidates after filtering excluded domains")
		return Result{}, ErrExhausted
	}

	for _, link := range filtered {
		v.Log.Info("attempting to play: %s", link)
		if v.Probe != nil {
			v.Probe(link)
		}

		proc, err := v.Launcher.Launch(link)
		if err != nil {
			v.Log.Error("launching player: %v", err)
			continue
		}

		v.sleep(v.startup)
		if !proc.Alive() {
			v.Log.Warn("player exited during startup")
			continue
		}

		if v.Mode == Interactive {
			if v.confirm() {
				v.Log.Info("playback confirmed for %s", link)
				return Result{Link: link, Verified: true}, nil
			}
			v.Log.Info("playback rejected, trying next candidate")
			proc.Stop()
			continue
		}

		v.sleep(v.window1)
		if !proc.Alive() {
			v.Log.Warn("player exited during first observation window")
			continue
		}
		v.sleep(v.window2)
		if !proc.Alive() {
			v.Log.Warn("player exited during second observation window")
			continue
		}

		// The player sustained playback through both windows; the check is
		// done, so release the process before reporting.
		proc.Stop()
		v.Log.Info("playback verified for %s", link)
		return Result{Link: link, Verified: true}, nil
	}

	return Result{}, ErrExhausted
}

// confirm prompts for a yes/no answer, re-prompting on anything else.
// EOF counts as a rejection.
func (v *Verifier) confirm() bool {
	if v.scanner == nil {
		v.scanner = bufio.NewScanner(v.In)
	}
	for {
		fmt.Print("\nIs the video playing correctly in VLC? (yes/no): ")
		if !v.scanner.Scan() {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(v.scanner.Text())) {
		case "yes":
			return true
		case "no":
			return false
		}
		fmt.Println("Please answer 'yes' or 'no'")
	}
}
