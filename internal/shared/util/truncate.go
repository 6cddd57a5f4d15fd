package util

import "strings"

// Truncate bounds s to max runes, appending an ellipsis when text was cut.
// Used to keep rationales in conflict reports at a readable length.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
