package manifest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// History is the set of already-processed titles, matched case-insensitively
// on the first segment of each "<title> | <link>" line. Loaded once at batch
// start, append-only afterwards.
type History struct {
	path   string
	titles map[string]struct{}
}

// LoadHistory reads the history file at path. A missing file yields an
// empty history.
func LoadHistory(path string) (*History, error) {
	h := &History{path: path, titles: map[string]struct{}{}}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		title, _, ok := strings.Cut(line, " | ")
		if !ok {
			continue
		}
		h.titles[strings.ToLower(strings.TrimSpace(title))] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return h, nil
}

// Contains reports whether title was already processed.
func (h *History) Contains(title string) bool {
	_, ok := h.titles[strings.ToLower(strings.TrimSpace(title))]
	return ok
}

// Len returns the number of known titles.
func (h *History) Len() int {
	return len(h.titles)
}

// Add appends a processed title and its verified link to the history file
// and records it in the in-memory set.
func (h *History) Add(title, link string) error {
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history for append: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s | %s\n", title, link); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	h.titles[strings.ToLower(strings.TrimSpace(title))] = struct{}{}
	return nil
}
