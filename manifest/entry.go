// Package manifest persists verified stream links: the Roku channel-manifest
// XML, the processed-titles history, and the single-link text output.
package manifest

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/whisper-darkly/stream-scout/scrape"
)

// Entry is one manifest record for a verified stream.
type Entry struct {
	Title       string
	Description string
	PosterURL   string
	StreamURL   string
	Genres      string // comma-joined
	Year        string
	Runtime     string
}

// FromDetails builds an Entry from scraped details and the verified link.
// The info line reads "rating runtime... year": the year is its last token
// and the runtime everything between rating and year. Stray quotes in
// title/description would break the XML attributes, so they are stripped.
func FromDetails(d *scrape.MovieDetails, link string) Entry {
	var year, runtime string
	parts := strings.Fields(d.Info)
	if len(parts) > 0 {
		year = parts[len(parts)-1]
	}
	if len(parts) > 2 {
		runtime = strings.Join(parts[1:len(parts)-1], " ")
	}

	clean := func(s string) string {
		return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
	}

	return Entry{
		Title:       clean(d.Title),
		Description: clean(d.Description),
		PosterURL:   d.ImageURL,
		StreamURL:   link,
		Genres:      strings.Join(d.Genres, ", "),
		Year:        year,
		Runtime:     runtime,
	}
}

type subtitle struct {
	Language    string `xml:"language,attr"`
	Description string `xml:"description,attr"`
	URL         string `xml:"url,attr"`
}

type item struct {
	XMLName      xml.Name   `xml:"item"`
	Title        string     `xml:"title,attr"`
	Description  string     `xml:"description,attr"`
	HDPosterURL  string     `xml:"hdposterurl,attr"`
	StreamFormat string     `xml:"streamformat,attr"`
	URL          string     `xml:"url,attr"`
	Genre        string     `xml:"genre"`
	Year         string     `xml:"year"`
	Runtime      string     `xml:"runtime"`
	Subtitles    []subtitle `xml:"subtitle"`
}

// render produces the indented <item> element for the manifest.
func (e Entry) render() ([]byte, error) {
	it := item{
		Title:        e.Title,
		Description:  e.Description,
		HDPosterURL:  e.PosterURL,
		StreamFormat: "hls",
		URL:          e.StreamURL,
		Genre:        e.Genres,
		Year:         e.Year,
		Runtime:      e.Runtime,
		Subtitles: []subtitle{
			{Language: "eng", Description: "English"},
			{Language: "spa", Description: "Spanish"},
		},
	}
	b, err := xml.MarshalIndent(it, "   ", "   ")
	if err != nil {
		return nil, fmt.Errorf("render manifest entry: %w", err)
	}
	return b, nil
}
