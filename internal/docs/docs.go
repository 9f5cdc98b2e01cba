// Package docs serves the embedded on-demand documentation topics.
package docs

import (
	"embed"
	"io/fs"
	"strings"
)

//go:embed topics/*.md
var topicsFS embed.FS

// Topics lists the available topic names.
func Topics() []string {
	entries, err := fs.ReadDir(topicsFS, "topics")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name != e.Name() {
			out = append(out, name)
		}
	}
	return out
}

// Get returns the markdown body of one topic.
func Get(topic string) (string, bool) {
	b, err := topicsFS.ReadFile("topics/" + topic + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}
