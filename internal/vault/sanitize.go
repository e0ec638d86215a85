package vault

import "strings"

// maxFilenameLen caps title-derived filename stems.
const maxFilenameLen = 120

// SanitizeFilename turns an arbitrary title into a safe path segment. Path
// separators, reserved punctuation, control characters, and tabs become
// spaces; runs of those collapse to a single space; the result is trimmed,
// never empty, never "." or "..", and at most 120 characters.
//
// The mapping is total and idempotent but deliberately not reversible and
// not collision-free; collision handling belongs to the Writer reservation.
func SanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isForbidden(r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}

	out := strings.Join(strings.Fields(b.String()), " ")
	if out == "" || out == "." || out == ".." {
		return "Untitled"
	}

	runes := []rune(out)
	if len(runes) > maxFilenameLen {
		out = strings.TrimRight(string(runes[:maxFilenameLen]), " ")
	}
	return out
}

func isForbidden(r rune) bool {
	if r < 0x20 || r == 0x7f || r == '\t' {
		return true
	}
	switch r {
	case '/', '\\', ':', '?', '%', '*', '|', '"', '<', '>':
		return true
	}
	return false
}
