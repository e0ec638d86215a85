package transcript

import (
	"fmt"
	"sort"
	"strings"
)

// EntryKind tags a timeline entry. Transcript entries sort before screen
// entries at equal timestamps, so the zero value order matters here.
type EntryKind int

const (
	EntryTranscript EntryKind = iota
	EntryScreen
)

// Entry is one row of the merged timeline. Speaker and End are meaningful
// only for EntryTranscript; Text holds the spoken text or the screen summary.
type Entry struct {
	Kind    EntryKind
	At      float64
	End     float64
	Speaker int
	Text    string
}

// BuildTimeline merges attributed transcript segments with screen-context
// events into one sequence sorted by timestamp ascending. Screen events with
// an empty trimmed summary are excluded. On exact timestamp ties, transcript
// entries come first.
func BuildTimeline(attributed []Attributed, events []ScreenEvent) []Entry {
	entries := make([]Entry, 0, len(attributed)+len(events))
	for _, a := range attributed {
		entries = append(entries, Entry{Kind: EntryTranscript, At: a.Start, End: a.End, Speaker: a.Speaker, Text: a.Text})
	}
	for _, e := range events {
		if strings.TrimSpace(e.Summary) == "" {
			continue
		}
		entries = append(entries, Entry{Kind: EntryScreen, At: e.At, Text: strings.TrimSpace(e.Summary)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].At != entries[j].At {
			return entries[i].At < entries[j].At
		}
		return entries[i].Kind < entries[j].Kind
	})
	return entries
}

// RenderTimeline formats the timeline as the text block fed to the
// summarizer: one line per entry, speaker ids shown 1-based.
func RenderTimeline(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		switch e.Kind {
		case EntryTranscript:
			fmt.Fprintf(&b, "[%s] Speaker %d: %s\n", FormatTimestamp(e.At), e.Speaker+1, e.Text)
		case EntryScreen:
			if e.Text == "" {
				continue
			}
			fmt.Fprintf(&b, "[%s] Screen context - %s\n", FormatTimestamp(e.At), e.Text)
		}
	}
	return b.String()
}

// FormatTimestamp renders seconds as MM:SS, or HH:MM:SS once hours are
// non-zero. Negative inputs clamp to zero; sub-second precision is floored.
func FormatTimestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(sec)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
