// Package transcript holds the timed-text domain: transcription segments,
// diarized speaker segments, speaker attribution, and the merged timeline
// used to prompt the summarizer.
package transcript

import (
	"regexp"
	"strconv"
	"strings"
)

// Segment is one timed span of transcribed speech. Times are seconds from
// the start of the recording; Start <= End.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// RawSpeakerSegment is a diarizer-native segment with the tool's own label
// (e.g. "SPEAKER_01"). Labels are remapped to dense ids before attribution.
type RawSpeakerSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"speaker"`
}

// SpeakerSegment is a diarized span with a stable integer speaker id.
type SpeakerSegment struct {
	Start   float64
	End     float64
	Speaker int
}

// Attributed is a transcript segment with a speaker id assigned.
type Attributed struct {
	Start   float64
	End     float64
	Speaker int
	Text    string
}

// ScreenEvent is an opaque screen-context annotation: what was on screen at
// a point in the recording, with an inferred one-line summary.
type ScreenEvent struct {
	At          float64 `json:"at"`
	WindowTitle string  `json:"windowTitle"`
	Summary     string  `json:"summary"`
}

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// RemapSpeakerLabels converts diarizer labels to dense integer ids. A label
// with a numeric suffix keeps that number (so "SPEAKER_01" and "spk1" both
// map to 1); anything else gets a first-seen counter. The mapping is stable:
// the same label always yields the same id within one call.
func RemapSpeakerLabels(raw []RawSpeakerSegment) []SpeakerSegment {
	if len(raw) == 0 {
		return nil
	}
	ids := make(map[string]int, 4)
	next := 0
	out := make([]SpeakerSegment, 0, len(raw))
	for _, r := range raw {
		id, ok := ids[r.Label]
		if !ok {
			if m := trailingDigits.FindString(r.Label); m != "" {
				id, _ = strconv.Atoi(m)
			} else {
				id = next
				next++
			}
			ids[r.Label] = id
		}
		out = append(out, SpeakerSegment{Start: r.Start, End: r.End, Speaker: id})
	}
	return out
}

// PlainText joins the trimmed non-empty segment texts with single spaces.
// Used for the transcript file when speaker attribution is unavailable.
func PlainText(segs []Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
