// Package harvest collects candidate stream-resource URLs from a session's
// network activity and ranks them for verification.
package harvest

import (
	"errors"
	"strings"
	"time"

	"github.com/whisper-darkly/stream-scout/browser"
	"github.com/whisper-darkly/stream-scout/logger"
)

// ErrNoResourceFound means the harvester observed no stream resource.
// Non-fatal: the target is skipped.
var ErrNoResourceFound = errors.New("no stream resource observed")

const (
	// streamMarker tags a network response URL as a stream playlist.
	streamMarker = ".m3u8"
	// specialMarker tags the frame src of the provider that exposes its
	// stream directly as a frame target.
	specialMarker = "waaw.to"
)

// frameResourcesJS lists every resource URL the frame's document has
// requested, via the Performance API.
const frameResourcesJS = `() => performance.getEntriesByType('resource').map(r => r.name)`

// Harvester scans a session's accumulated network records for candidates.
type Harvester struct {
	FrameSettle time.Duration // wait inside each frame before scanning, default 2s
	AsyncSettle time.Duration // final wait for delayed requests, default 5s

	Log *logger.Logger

	sleep func(time.Duration)
}

// New creates a Harvester with the fixed default timing.
func New(log *logger.Logger) *Harvester {
	return &Harvester{
		FrameSettle: 2 * time.Second,
		AsyncSettle: 5 * time.Second,
		Log:         log,
		sleep:       time.Sleep,
	}
}

// set is a dedup set preserving first-seen insertion order.
type set struct {
	seen  map[string]struct{}
	order []string
}

func newSet() *set {
	return &set{seen: map[string]struct{}{}}
}

func (s *set) add(url string) bool {
	if _, dup := s.seen[url]; dup {
		return false
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

// scanRecords inserts every record containing the stream marker into the set,
// reporting how many were new.
func scanRecords(records []string, into *set) int {
	added := 0
	for _, url := range records {
		if !strings.Contains(url, streamMarker) {
			continue
		}
		if into.add(url) {
			added++
		}
	}
	return added
}

// Collect gathers candidate stream URLs. In special-provider mode the only
// behavior is returning the matching frame src; stream discovery for that
// provider never surfaces in the network log. In normal mode it scans the
// top-level response records, then each frame's own resource log, then makes
// one final pass after a settle window for delayed requests.
func (h *Harvester) Collect(sess *browser.Session, special bool) []string {
	if special {
		return h.specialFrame(sess)
	}

	found := newSet()

	if n := scanRecords(sess.ResponseURLs(), found); n > 0 {
		h.Log.Info("found %d stream links in network log", n)
	}

	h.frameScan(sess, found)

	// Delayed async requests: one more settle, one more pass.
	h.sleep(h.AsyncSettle)
	if n := scanRecords(sess.ResponseURLs(), found); n > 0 {
		h.Log.Info("found %d stream links in delayed requests", n)
	}

	return found.order
}

// frameScan visits every frame on the page and scans its resource log.
// A per-frame failure skips that frame; the top-level page is never left in
// a frame context because rod addresses frames as separate documents.
func (h *Harvester) frameScan(sess *browser.Session, found *set) {
	frames, err := sess.Page().Elements("iframe")
	if err != nil {
		h.Log.Warn("frame scan failed: %v", err)
		return
	}

	for i, el := range frames {
		frame, err := el.Frame()
		if err != nil {
			h.Log.Debug("frame %d: not reachable: %v", i, err)
			continue
		}
		h.sleep(h.FrameSettle)

		res, err := frame.Eval(frameResourcesJS)
		if err != nil {
			h.Log.Debug("frame %d: resource scan failed: %v", i, err)
			continue
		}
		var records []string
		for _, v := range res.Value.Arr() {
			records = append(records, v.String())
		}
		if n := scanRecords(records, found); n > 0 {
			h.Log.Info("found %d stream links in frame %d", n, i)
		}
	}
}

// specialFrame returns the src of the first frame carrying the special
// provider marker as the single candidate.
func (h *Harvester) specialFrame(sess *browser.Session) []string {
	frames, err := sess.Page().Elements("iframe")
	if err != nil {
		h.Log.Warn("frame scan failed: %v", err)
		return nil
	}
	for _, el := range frames {
		src, err := el.Attribute("src")
		if err != nil || src == nil {
			continue
		}
		if strings.Contains(*src, specialMarker) {
			h.Log.Info("found %s link: %s", specialMarker, *src)
			return []string{*src}
		}
	}
	h.Log.Warn("no %s frame found", specialMarker)
	return nil
}
