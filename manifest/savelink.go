package manifest

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

// SanitizeTitle keeps only alphanumerics, spaces, '-' and '_' so a movie
// title can name a file on any filesystem.
func SanitizeTitle(title string) string {
	var sb strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

// SaveLink writes the verified link as plain text to "<sanitized title>.txt"
// and returns the filename.
func SaveLink(title, link string) (string, error) {
	name := SanitizeTitle(title)
	if name == "" {
		name = "stream"
	}
	filename := name + ".txt"
	if err := os.WriteFile(filename, []byte(link), 0o644); err != nil {
		return "", fmt.Errorf("save link: %w", err)
	}
	return filename, nil
}
