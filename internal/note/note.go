// Package note renders the persisted vault artifacts: the meeting note and
// the transcript file. Renderers are pure functions of their arguments so
// identical inputs always produce byte-identical output.
package note

import (
	"fmt"
	"strings"
	"time"

	"minute/internal/extract"
	"minute/internal/transcript"
)

// RenderNote produces the meeting note. audioRel and transcriptRel are
// vault-relative paths; either may be empty to omit its frontmatter key and
// body section. processedAt is the only timestamp the renderer may use.
//
// The extraction must already be validated; this function does not sanitize.
func RenderNote(x *extract.Extraction, audioRel, transcriptRel string, processedAt time.Time) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString("type: meeting\n")
	fmt.Fprintf(&b, "date: %s\n", x.Date)
	fmt.Fprintf(&b, "title: \"%s\"\n", yamlEscape(x.Title))
	if audioRel != "" {
		fmt.Fprintf(&b, "audio: \"%s\"\n", yamlEscape(audioRel))
	}
	if transcriptRel != "" {
		fmt.Fprintf(&b, "transcript: \"%s\"\n", yamlEscape(transcriptRel))
	}
	b.WriteString("source: \"Minute\"\n")
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", x.Title)

	b.WriteString("## Summary\n")
	if x.Summary != "" {
		b.WriteString(x.Summary)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	writeBulletSection(&b, "## Decisions", x.Decisions)

	b.WriteString("## Action Items\n")
	for _, it := range x.ActionItems {
		if it.Owner != "" {
			fmt.Fprintf(&b, "- [ ] %s (Owner: %s)\n", it.Task, it.Owner)
		} else {
			fmt.Fprintf(&b, "- [ ] %s\n", it.Task)
		}
	}
	b.WriteString("\n")

	writeBulletSection(&b, "## Open Questions", x.OpenQuestions)
	writeBulletSection(&b, "## Key Points", x.KeyPoints)

	if audioRel != "" {
		fmt.Fprintf(&b, "## Audio\n![[%s]]\n\n", audioRel)
	}
	if transcriptRel != "" {
		fmt.Fprintf(&b, "## Transcript\n[[%s]]\n\n", transcriptRel)
	}

	fmt.Fprintf(&b, "*Processed %s UTC*\n", processedAt.UTC().Format("2006-01-02 15:04"))

	return b.String()
}

// RenderTranscript produces the standalone transcript file. When attributed
// segments are available it emits one "Speaker N [start - end]" block per
// segment; otherwise it falls back to the single plain-text blob.
func RenderTranscript(x *extract.Extraction, attributed []transcript.Attributed, plain string) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString("type: meeting_transcript\n")
	fmt.Fprintf(&b, "date: %s\n", x.Date)
	fmt.Fprintf(&b, "title: \"%s\"\n", yamlEscape(x.Title))
	b.WriteString("source: \"Minute\"\n")
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s — Transcript\n\n", x.Title)

	if len(attributed) > 0 {
		for _, a := range attributed {
			fmt.Fprintf(&b, "Speaker %d [%s - %s]\n%s\n\n",
				a.Speaker+1,
				transcript.FormatTimestamp(a.Start),
				transcript.FormatTimestamp(a.End),
				a.Text)
		}
	} else {
		b.WriteString(strings.TrimSpace(plain))
		b.WriteString("\n")
	}

	return ensureTrailingNewline(b.String())
}

// writeBulletSection emits the header followed by one bullet per item. An
// empty list still gets its header, never omitted.
func writeBulletSection(b *strings.Builder, header string, items []string) {
	b.WriteString(header)
	b.WriteString("\n")
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

// yamlEscape escapes the characters that would break a double-quoted YAML
// scalar: backslash, double quote, and newline.
func yamlEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
