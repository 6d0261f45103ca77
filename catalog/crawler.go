package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/whisper-darkly/stream-scout/browser"
	"github.com/whisper-darkly/stream-scout/logger"
)

// Crawler walks the site's paginated catalog listing and writes every
// discovered (title, url) pair to the catalog file.
type Crawler struct {
	BaseURL string
	Pages   int
	OutPath string

	Browser browser.Config
	Log     *logger.Logger

	sleep func(time.Duration)
}

// NewCrawler creates a catalog crawler.
func NewCrawler(baseURL string, pages int, outPath string, cfg browser.Config, log *logger.Logger) *Crawler {
	return &Crawler{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Pages:   pages,
		OutPath: outPath,
		Browser: cfg,
		Log:     log,
		sleep:   time.Sleep,
	}
}

// Run crawls every catalog page sequentially, saving progress after each
// page so an interrupted crawl keeps what it found. A page that yields
// nothing gets one retry before being skipped.
func (c *Crawler) Run() error {
	sess, err := browser.Open(c.BaseURL, c.Browser)
	if err != nil {
		return err
	}
	defer sess.Close()

	var all []Target
	for page := 1; page <= c.Pages; page++ {
		url := fmt.Sprintf("%s/peliculas/publicadas/page/%d", c.BaseURL, page)

		targets := c.crawlPage(sess, url)
		if len(targets) == 0 {
			c.Log.Warn("no links on page %d, retrying once", page)
			c.sleep(randomDelay(2, 5))
			targets = c.crawlPage(sess, url)
		}
		all = append(all, targets...)

		if err := Save(c.OutPath, all); err != nil {
			return err
		}
		c.Log.Info("page %d/%d: %d links (%d total)", page, c.Pages, len(targets), len(all))

		// Random inter-page delay to stay under rate-based bot detection.
		c.sleep(randomDelay(1, 3))
	}

	c.Log.Event("CRAWL DONE",
		logger.KV{Key: "pages", Value: fmt.Sprintf("%d", c.Pages)},
		logger.KV{Key: "targets", Value: fmt.Sprintf("%d", len(all))})
	return nil
}

func (c *Crawler) crawlPage(sess *browser.Session, url string) []Target {
	if err := sess.Navigate(url); err != nil {
		c.Log.Warn("navigate %s: %v", url, err)
		return nil
	}
	html, err := sess.Page().HTML()
	if err != nil {
		c.Log.Warn("read %s: %v", url, err)
		return nil
	}
	targets, err := ParseCatalogPage(html, c.BaseURL)
	if err != nil {
		c.Log.Warn("parse %s: %v", url, err)
		return nil
	}
	return targets
}

// ParseCatalogPage extracts the movie links from one listing page.
func ParseCatalogPage(html, baseURL string) ([]Target, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var targets []Target
	doc.Find("ul.MovieList a").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if !strings.HasPrefix(href, "/ver-pelicula/") {
			return
		}
		title := strings.TrimSpace(s.Text())
		if title == "" {
			return
		}
		targets = append(targets, Target{Title: title, URL: baseURL + href})
	})
	return targets, nil
}

func randomDelay(minSec, maxSec int) time.Duration {
	return time.Duration(minSec)*time.Second + time.Duration(rand.Int63n(int64(maxSec-minSec)*int64(time.Second)))
}
