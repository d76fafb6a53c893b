package tui

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// clampString cuts s to maxLen runes and marks the cut with an ellipsis.
func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen]) + "…"
}

// shortPath keeps the tail of a workspace path, dropping whole leading
// directories so the banner still shows the project name.
func shortPath(p string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(p) <= maxLen {
		return p
	}
	parts := strings.Split(filepath.ToSlash(p), "/")
	tail := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		next := parts[i] + "/" + tail
		if utf8.RuneCountInString(next)+2 > maxLen {
			break
		}
		tail = next
	}
	if utf8.RuneCountInString(tail)+2 > maxLen {
		r := []rune(tail)
		return "…" + string(r[len(r)-(maxLen-1):])
	}
	return "…/" + tail
}
