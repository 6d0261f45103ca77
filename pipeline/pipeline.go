// Package pipeline sequences a full extraction-and-verification run for one
// target page, and for many targets in batch mode.
package pipeline

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/whisper-darkly/stream-scout/browser"
	"github.com/whisper-darkly/stream-scout/catalog"
	"github.com/whisper-darkly/stream-scout/embed"
	"github.com/whisper-darkly/stream-scout/harvest"
	"github.com/whisper-darkly/stream-scout/logger"
	"github.com/whisper-darkly/stream-scout/manifest"
	"github.com/whisper-darkly/stream-scout/playback"
	"github.com/whisper-darkly/stream-scout/scrape"
	"github.com/whisper-darkly/stream-scout/source"
)

// Config holds all pipeline parameters.
type Config struct {
	Browser browser.Config
	Source  source.Config

	Play          bool // verify interactively in the player
	Auto          bool // verify automatically (timed checkpoints)
	WriteManifest bool // verify and append a manifest entry
	SaveLink      bool // verify and write the link to <title>.txt

	ManifestPath string
	HistoryPath  string

	OptionTimeout time.Duration // per-source-option element wait

	Log *logger.Logger
}

// Outcome carries everything a target run produced, even on a failed
// verification: scraped details and harvested links are still returned.
type Outcome struct {
	Details *scrape.MovieDetails
	Links   []string
	Result  playback.Result
}

// Pipeline runs targets sequentially: one browser session at a time, steps
// in fixed order, no overlap. Concurrent sessions are deliberately avoided
// to stay under the target site's anti-automation radar.
type Pipeline struct {
	cfg       Config
	log       *logger.Logger
	selector  *source.Selector
	harvester *harvest.Harvester
	verifier  *playback.Verifier

	sleep     func(time.Duration)
	runTarget func(catalog.Target) (*Outcome, error)
}

// New wires a Pipeline. When a verifying mode is requested but no player
// executable exists, the pipeline is still constructed: scraping and
// harvesting proceed, and only the verification step fails.
func New(cfg Config) *Pipeline {
	if cfg.OptionTimeout <= 0 {
		cfg.OptionTimeout = 20 * time.Second
	}

	p := &Pipeline{
		cfg:       cfg,
		log:       cfg.Log,
		selector:  source.NewSelector(cfg.Log),
		harvester: harvest.New(cfg.Log),
		sleep:     time.Sleep,
	}
	p.runTarget = p.RunTarget
	p.selector.WaitTimeout = cfg.OptionTimeout

	if p.verifying() {
		vlc, err := playback.NewVLC(cfg.Log)
		if err != nil {
			cfg.Log.Error("%v", err)
			return p
		}
		mode := playback.Automated
		if cfg.Play {
			mode = playback.Interactive
		}
		p.verifier = playback.NewVerifier(vlc, mode, cfg.Log)
		p.verifier.Probe = playback.NewPlaylistProbe(cfg.Log)
	}
	return p
}

func (p *Pipeline) verifying() bool {
	return p.cfg.Play || p.cfg.Auto || p.cfg.WriteManifest || p.cfg.SaveLink
}

// RunTarget processes one target end to end. The session is closed on every
// exit path. Errors mean "this target produced no verified link"; the
// Outcome still carries whatever was discovered before the failure.
func (p *Pipeline) RunTarget(t catalog.Target) (*Outcome, error) {
	out := &Outcome{}

	sess, err := browser.Open(t.URL, p.cfg.Browser)
	if err != nil {
		return out, err
	}
	defer sess.Close()

	// Dynamic content settle after the load event.
	p.sleep(5 * time.Second)

	details, err := scrape.Details(sess, p.log)
	if err != nil {
		return out, fmt.Errorf("details for %q: %w", t.Title, err)
	}
	out.Details = details

	scrape.RemovePopups(sess, p.log)

	if err := scrape.OpenSourceDropdown(sess, p.log, p.cfg.OptionTimeout); err != nil {
		return out, err
	}

	opt, err := p.selector.Select(sess, p.cfg.Source)
	if err != nil {
		return out, err
	}
	p.sleep(5 * time.Second)

	var links []string
	if redirect, ok := embed.ResolveFirst(sess, p.log); ok {
		p.log.Info("redirect resolved, harvesting from %s", redirect.URL)
		links = p.harvester.Collect(sess, false)
	} else {
		// No embed handled: give the in-page player longer to start
		// requesting its stream before scanning.
		p.sleep(10 * time.Second)
		links = p.harvester.Collect(sess, opt.Special())
	}
	if len(links) == 0 {
		return out, fmt.Errorf("%q: %w", t.Title, harvest.ErrNoResourceFound)
	}
	out.Links = links
	p.log.Info("found %d candidate links", len(links))

	if !p.verifying() {
		return out, nil
	}
	if p.verifier == nil {
		return out, playback.ErrPlayerNotFound
	}

	res, err := p.verifier.Verify(rankFirst(links))
	if err != nil {
		return out, fmt.Errorf("%q: %w", t.Title, err)
	}
	out.Result = res

	if p.cfg.WriteManifest {
		if err := manifest.Append(p.cfg.ManifestPath, manifest.FromDetails(details, res.Link)); err != nil {
			return out, err
		}
		p.log.Info("appended manifest entry for %q", details.Title)
	}
	if p.cfg.SaveLink {
		name, err := manifest.SaveLink(details.Title, res.Link)
		if err != nil {
			return out, err
		}
		p.log.Info("saved working link to %s", name)
	}
	return out, nil
}

// RunBatch processes every target in order, skipping titles already in
// history. Manifest and history are written per completed target, so a
// crash mid-batch loses at most the in-flight one.
func (p *Pipeline) RunBatch(targets []catalog.Target, randomize bool) error {
	hist, err := manifest.LoadHistory(p.cfg.HistoryPath)
	if err != nil {
		return err
	}
	p.log.Info("loaded %d previously processed titles", hist.Len())

	if randomize {
		rand.Shuffle(len(targets), func(i, j int) {
			targets[i], targets[j] = targets[j], targets[i]
		})
		p.log.Info("randomized target order")
	}

	for i, t := range targets {
		if hist.Contains(t.Title) {
			p.log.Info("skipping already processed: %s", t.Title)
			continue
		}
		p.log.Info("processing target %d/%d: %s", i+1, len(targets), t.Title)

		out, err := p.runTarget(t)
		if err != nil {
			// Without a player no target in this batch can ever verify.
			if errors.Is(err, playback.ErrPlayerNotFound) {
				return err
			}
			p.log.Warn("skipping %q: %v", t.Title, err)
			continue
		}

		if out.Result.Verified {
			if err := hist.Add(t.Title, out.Result.Link); err != nil {
				return err
			}
			p.log.Event("TARGET DONE",
				logger.KV{Key: "title", Value: t.Title},
				logger.KV{Key: "link", Value: out.Result.Link})
		}
	}

	p.log.Info("completed processing all targets")
	return nil
}

// rankFirst moves the prioritizer's pick to the front of the verification
// order, keeping the rest in harvest order as fallbacks.
func rankFirst(links []string) []string {
	best, ok := harvest.Prioritize(links)
	if !ok {
		return links
	}
	out := make([]string, 0, len(links))
	out = append(out, best)
	for _, l := range links {
		if l != best {
			out = append(out, l)
		}
	}
	return out
}
