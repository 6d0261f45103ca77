package playback

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisper-darkly/stream-scout/logger"
)

// fakeProc dies lifespan after its launch on the shared fake clock.
// lifespan 0 means it never dies on its own.
type fakeProc struct {
	clock    *time.Duration
	launched time.Duration
	lifespan time.Duration
	stopped  bool
}

func (p *fakeProc) Alive() bool {
	if p.stopped {
		return false
	}
	return p.lifespan == 0 || *p.clock-p.launched < p.lifespan
}

func (p *fakeProc) Stop() { p.stopped = true }

// fakeLauncher hands out one scripted process per launch in order.
type fakeLauncher struct {
	clock     *time.Duration
	lifespans []time.Duration
	procs     []*fakeProc
	launched  []string
}

func (l *fakeLauncher) Launch(link string) (Process, error) {
	i := len(l.launched)
	l.launched = append(l.launched, link)
	p := &fakeProc{clock: l.clock, launched: *l.clock, lifespan: l.lifespans[i]}
	l.procs = append(l.procs, p)
	return p, nil
}

func newTestVerifier(mode Mode, lifespans ...time.Duration) (*Verifier, *fakeLauncher, *time.Duration) {
	clock := new(time.Duration)
	launcher := &fakeLauncher{clock: clock, lifespans: lifespans}
	v := NewVerifier(launcher, mode, logger.New(logger.LevelError))
	v.sleep = func(d time.Duration) { *clock += d }
	return v, launcher, clock
}

func TestFilterExcluded(t *testing.T) {
	links := []string{
		"https://cdn.good/index.m3u8",
		"https://swiftplayers.com/stream/abc.m3u8",
		"https://jonathansociallike.com/x.m3u8",
		"https://cdn.other/master.m3u8",
	}
	assert.Equal(t, []string{
		"https://cdn.good/index.m3u8",
		"https://cdn.other/master.m3u8",
	}, FilterExcluded(links))
}

func TestVerifyAutomatedAdvancesPastDyingPlayers(t *testing.T) {
	// First player dies before the startup check, second inside the first
	// observation window, third sustains playback.
	v, launcher, _ := newTestVerifier(Automated,
		3*time.Second,  // dead at startup check (5s)
		10*time.Second, // dead at first window check (20s)
		0,              // survives
	)

	res, err := v.Verify([]string{"link1", "link2", "link3"})
	require.NoError(t, err)
	assert.Equal(t, Result{Link: "link3", Verified: true}, res)
	assert.Equal(t, []string{"link1", "link2", "link3"}, launcher.launched)

	// The verified player is released before reporting.
	assert.True(t, launcher.procs[2].stopped)
}

func TestVerifyAutomatedSecondWindow(t *testing.T) {
	// Dies between the first and second checkpoint (after 20s, before 30s).
	v, launcher, _ := newTestVerifier(Automated, 25*time.Second, 0)

	res, err := v.Verify([]string{"link1", "link2"})
	require.NoError(t, err)
	assert.Equal(t, "link2", res.Link)
	assert.Len(t, launcher.launched, 2)
}

func TestVerifyExhausted(t *testing.T) {
	v, launcher, _ := newTestVerifier(Automated, time.Second, time.Second)

	_, err := v.Verify([]string{"link1", "link2"})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Len(t, launcher.launched, 2)
}

func TestVerifyAllCandidatesExcluded(t *testing.T) {
	v, launcher, _ := newTestVerifier(Automated)

	_, err := v.Verify([]string{
		"https://swiftplayers.com/stream/a.m3u8",
		"https://jonathansociallike.com/b.m3u8",
	})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Empty(t, launcher.launched, "excluded candidates must never launch a player")
}

func TestVerifyInteractiveConfirmKeepsPlayerRunning(t *testing.T) {
	v, launcher, _ := newTestVerifier(Interactive, 0)
	// Junk answers re-prompt until a yes/no arrives.
	v.In = strings.NewReader("maybe\nYES\n")

	res, err := v.Verify([]string{"link1"})
	require.NoError(t, err)
	assert.Equal(t, Result{Link: "link1", Verified: true}, res)
	assert.False(t, launcher.procs[0].stopped, "confirmed player stays running")
}

func TestVerifyInteractiveRejectStopsAndAdvances(t *testing.T) {
	v, launcher, _ := newTestVerifier(Interactive, 0, 0)
	v.In = strings.NewReader("no\nyes\n")

	res, err := v.Verify([]string{"link1", "link2"})
	require.NoError(t, err)
	assert.Equal(t, "link2", res.Link)
	assert.True(t, launcher.procs[0].stopped, "rejected player is terminated")
	assert.False(t, launcher.procs[1].stopped)
}

func TestVerifyInteractiveSurvivesRepeatedRejections(t *testing.T) {
	// All answers arrive on one shared reader; earlier prompts must not
	// swallow the input meant for later candidates.
	v, launcher, _ := newTestVerifier(Interactive, 0, 0, 0)
	v.In = strings.NewReader("no\nno\nyes\n")

	res, err := v.Verify([]string{"link1", "link2", "link3"})
	require.NoError(t, err)
	assert.Equal(t, "link3", res.Link)
	assert.True(t, launcher.procs[0].stopped)
	assert.True(t, launcher.procs[1].stopped)
	assert.False(t, launcher.procs[2].stopped)
}

func TestVerifyInteractiveEOFRejects(t *testing.T) {
	v, _, _ := newTestVerifier(Interactive, 0)
	v.In = strings.NewReader("")

	_, err := v.Verify([]string{"link1"})
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestVerifyProbeRunsPerCandidate(t *testing.T) {
	v, _, _ := newTestVerifier(Automated, time.Second, 0)
	var probed []string
	v.Probe = func(link string) { probed = append(probed, link) }

	_, err := v.Verify([]string{"link1", "link2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"link1", "link2"}, probed)
}
