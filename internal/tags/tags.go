// Package tags extracts inline #hashtags from memo content and merges them
// with user-supplied tags.
package tags

import (
	"regexp"
	"strings"
)

var tagRe = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_-]*)`)

// Extract returns the deduplicated inline #hashtags found in content,
// lowercased, in order of first appearance.
func Extract(content string) []string {
	matches := tagRe.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		t := strings.ToLower(m[1])
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Merge combines user tags with extracted tags, trimming whitespace,
// lowercasing, and dropping empties and duplicates. User tags keep their
// relative order and come first.
func Merge(userTags []string, content string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	add := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range userTags {
		add(t)
	}
	for _, t := range Extract(content) {
		add(t)
	}
	return out
}
