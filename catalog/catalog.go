// Package catalog reads and produces the movie catalog: "<title> | <url>"
// lines, one target per line.
package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Target is one page to process. Immutable once loaded.
type Target struct {
	Title string
	URL   string
}

// ParseLine splits a catalog line into a Target. A valid line has exactly
// one " | " separator; anything else is ignored.
func ParseLine(line string) (Target, bool) {
	parts := strings.Split(line, " | ")
	if len(parts) != 2 {
		return Target{}, false
	}
	title := strings.TrimSpace(parts[0])
	url := strings.TrimSpace(parts[1])
	if title == "" || url == "" {
		return Target{}, false
	}
	return Target{Title: title, URL: url}, true
}

// Load reads every valid target from the catalog file at path.
func Load(path string) ([]Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	var targets []Target
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if t, ok := ParseLine(scanner.Text()); ok {
			targets = append(targets, t)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return targets, nil
}

// Search returns the targets whose title contains term, case-insensitive.
func Search(targets []Target, term string) []Target {
	term = strings.ToLower(term)
	var matches []Target
	for _, t := range targets {
		if strings.Contains(strings.ToLower(t.Title), term) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Save writes the full target list to path, one line per target.
func Save(path string, targets []Target) error {
	var sb strings.Builder
	for _, t := range targets {
		fmt.Fprintf(&sb, "%s | %s\n", t.Title, t.URL)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
