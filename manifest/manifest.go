package manifest

import (
	"fmt"
	"os"
	"strings"
)

const (
	rootOpen  = "<Content>"
	rootClose = "</Content>"
)

// Append adds an entry to the manifest document at path, creating the file
// if absent. The document is a single <Content> container of <item> records:
// every append re-reads the file, strips the closing tag, appends the new
// entry, and rewrites the whole document. This is the documented contract:
// it is a full-file rewrite, not atomic and not crash-safe, and assumes a
// single writer.
func Append(path string, e Entry) error {
	rendered, err := e.render()
	if err != nil {
		return err
	}

	content := rootOpen + "\n"
	if existing, err := os.ReadFile(path); err == nil {
		content = strings.ReplaceAll(string(existing), rootClose, "")
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read manifest: %w", err)
	}

	doc := strings.TrimRight(content, "\n") + "\n" + string(rendered) + "\n" + rootClose
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
