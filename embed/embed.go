// Package embed recognizes known third-party embed/redirect frames nested in
// a page and drives the provider-specific interaction needed to reach the
// real stream URL.
package embed

import (
	"time"

	"github.com/whisper-darkly/stream-scout/browser"
	"github.com/whisper-darkly/stream-scout/logger"
)

// Outcome is the terminal state of one resolve attempt.
type Outcome struct {
	Redirected bool
	URL        string        // final URL, set only when Redirected
	Elapsed    time.Duration // time until the redirect fired (redirect-poll only)
}

// Resolver drives one provider's embed pattern. Adding a provider means
// adding a Resolver, not editing control flow.
type Resolver interface {
	// Name identifies the provider in logs.
	Name() string
	// Match reports whether a frame src belongs to this provider.
	Match(src string) bool
	// Resolve navigates into the frame target and performs the interaction
	// that leads to the real stream page.
	Resolve(sess *browser.Session, src string, log *logger.Logger) (Outcome, error)
}

// registry keeps resolvers in registration order; the first match wins.
var registry []Resolver

// Register adds a resolver to the registry.
func Register(r Resolver) {
	registry = append(registry, r)
}

// matchFrame returns the first (resolver, frame src) pair where a frame src
// matches a registered resolver, scanning srcs in page order.
func matchFrame(srcs []string) (Resolver, string, bool) {
	for _, src := range srcs {
		if src == "" {
			continue
		}
		for _, r := range registry {
			if r.Match(src) {
				return r, src, true
			}
		}
	}
	return nil, "", false
}

// ResolveFirst examines every frame on the current page for a known provider
// pattern and acts on at most the first match. A missing match, a failed
// branch, or a timed-out poll all report "no redirect resolved" — many
// targets simply have no nested embed.
func ResolveFirst(sess *browser.Session, log *logger.Logger) (Outcome, bool) {
	frames, err := sess.Page().Elements("iframe")
	if err != nil {
		log.Warn("frame scan failed: %v", err)
		return Outcome{}, false
	}

	var srcs []string
	for _, f := range frames {
		src, err := f.Attribute("src")
		if err != nil || src == nil {
			continue
		}
		srcs = append(srcs, *src)
	}

	r, src, ok := matchFrame(srcs)
	if !ok {
		log.Info("no player frames found")
		return Outcome{}, false
	}

	log.Info("found %s frame: %s", r.Name(), src)
	out, err := r.Resolve(sess, src, log)
	if err != nil {
		log.Error("resolving %s frame: %v", r.Name(), err)
		return Outcome{}, false
	}
	if !out.Redirected {
		return Outcome{}, false
	}
	return out, true
}
