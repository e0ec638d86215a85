package extract

import (
	"regexp"
	"strings"
	"time"
)

// FallbackSummary is the fixed notice used when the model never produced
// decodable JSON. It is the only summarizer-derived text that may reach the
// renderer without coming from a decoded extraction.
const FallbackSummary = "Automatic summarization failed. The meeting was recorded, but no structured summary could be produced."

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validate normalizes x in place so it is safe to render. Idempotent:
// validating an already-validated extraction changes nothing.
//
// fallbackDate supplies the meeting date (formatted YYYY-MM-DD in UTC) when
// the decoded date does not match the ISO pattern.
func Validate(x *Extraction, fallbackDate time.Time) {
	x.Title = singleLine(x.Title)
	if x.Title == "" {
		x.Title = "Untitled"
	}

	if !isoDate.MatchString(singleLine(x.Date)) {
		x.Date = fallbackDate.UTC().Format("2006-01-02")
	} else {
		x.Date = singleLine(x.Date)
	}

	x.Summary = multiLine(x.Summary)

	x.Decisions = cleanList(x.Decisions)
	x.OpenQuestions = cleanList(x.OpenQuestions)
	x.KeyPoints = cleanList(x.KeyPoints)

	items := make([]ActionItem, 0, len(x.ActionItems))
	for _, it := range x.ActionItems {
		it.Owner = singleLine(it.Owner)
		it.Task = singleLine(it.Task)
		if it.Owner == "" && it.Task == "" {
			continue
		}
		items = append(items, it)
	}
	x.ActionItems = items
}

// Fallback builds the guaranteed-valid extraction used when the whole
// decode/repair chain fails: Untitled, the recording's start date, a fixed
// failure notice, and empty lists.
func Fallback(start time.Time) *Extraction {
	return &Extraction{
		Title:         "Untitled",
		Date:          start.UTC().Format("2006-01-02"),
		Summary:       FallbackSummary,
		Decisions:     []string{},
		ActionItems:   []ActionItem{},
		OpenQuestions: []string{},
		KeyPoints:     []string{},
	}
}

// singleLine collapses all whitespace runs (including newlines and tabs) to
// single spaces and trims.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// multiLine normalizes line endings to LF and trims, preserving interior
// newlines.
func multiLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := singleLine(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}
