// Package scrape extracts the movie metadata shown on a target page and
// performs the pre-selection page grooming (overlay removal, opening the
// source dropdown).
package scrape

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/whisper-darkly/stream-scout/browser"
	"github.com/whisper-darkly/stream-scout/logger"
)

// MovieDetails is the scraped page metadata, passed through unchanged to the
// manifest formatter.
type MovieDetails struct {
	Title       string
	ImageURL    string
	Description string
	Info        string // "rating duration year" line, split later by the manifest
	Genres      []string
	Actors      []string
}

// dropdownSelector is the control that reveals the source/quality options.
const dropdownSelector = "div.H_ndV_0.fa.fa-chevron-down"

// overlayKillJS removes known popup/overlay elements. Best-effort: a page
// without them is not an error.
const overlayKillJS = `() => {
	document.querySelectorAll("[id^='lkdjl'], .overlay, .popup").forEach(function(element) {
		element.remove();
	});
}`

// Details scrapes MovieDetails from the session's current page.
func Details(sess *browser.Session, log *logger.Logger) (*MovieDetails, error) {
	html, err := sess.Page().HTML()
	if err != nil {
		return nil, fmt.Errorf("read page html: %w", err)
	}
	d, err := ParseDetails(html)
	if err != nil {
		return nil, err
	}
	log.Info("scraped details: title=%q genres=%d actors=%d", d.Title, len(d.Genres), len(d.Actors))
	return d, nil
}

// ParseDetails extracts MovieDetails from raw page HTML.
func ParseDetails(html string) (*MovieDetails, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("h1.Title").First().Text())
	if title == "" {
		return nil, fmt.Errorf("no title found on page")
	}

	d := &MovieDetails{
		Title:       title,
		ImageURL:    doc.Find("figure img.lazy").First().AttrOr("src", ""),
		Description: strings.TrimSpace(doc.Find("div.Description").First().Text()),
		Info:        strings.TrimSpace(doc.Find("p.Info").First().Text()),
	}

	doc.Find("li.AAIco-adjust:first-child a").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			d.Genres = append(d.Genres, t)
		}
	})
	doc.Find("li.AAIco-adjust:nth-child(2) a").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			d.Actors = append(d.Actors, t)
		}
	})
	return d, nil
}

// RemovePopups strips known overlay elements from the page. Never fatal.
func RemovePopups(sess *browser.Session, log *logger.Logger) {
	if err := sess.Eval(overlayKillJS); err != nil {
		log.Warn("overlay removal failed: %v", err)
		return
	}
	log.Debug("removed popup overlays")
	time.Sleep(2 * time.Second)
}

// OpenSourceDropdown locates and clicks the dropdown that lists the source
// options, retrying the click on overlay interception.
func OpenSourceDropdown(sess *browser.Session, log *logger.Logger, waitTimeout time.Duration) error {
	el, err := sess.WaitVisible(dropdownSelector, waitTimeout)
	if err != nil {
		return fmt.Errorf("source dropdown: %w", err)
	}
	if err := sess.ClickWithRetry(el, 3, 2*time.Second); err != nil {
		return fmt.Errorf("click source dropdown: %w", err)
	}
	log.Debug("opened source dropdown")
	time.Sleep(2 * time.Second)
	return nil
}
