package note

import (
	"strings"
	"testing"
	"time"

	"minute/internal/extract"
	"minute/internal/transcript"
)

var processedAt = time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC)

func weeklySync() *extract.Extraction {
	x := &extract.Extraction{
		Title:       "Weekly Sync",
		Date:        "2024-03-05",
		Summary:     "Discussed Q2 roadmap.",
		Decisions:   []string{"Ship v2"},
		ActionItems: []extract.ActionItem{{Owner: "Ana", Task: "Draft spec"}},
		KeyPoints:   []string{"Budget flat"},
	}
	extract.Validate(x, processedAt)
	return x
}

func TestRenderNote_EndToEnd(t *testing.T) {
	got := RenderNote(weeklySync(),
		"Meetings/_audio/2024-03-05 10.00 - Weekly Sync.wav",
		"Meetings/_transcripts/2024-03-05 10.00 - Weekly Sync.md",
		processedAt)

	for _, want := range []string{
		"type: meeting\n",
		"date: 2024-03-05\n",
		"title: \"Weekly Sync\"\n",
		"audio: \"Meetings/_audio/2024-03-05 10.00 - Weekly Sync.wav\"\n",
		"transcript: \"Meetings/_transcripts/2024-03-05 10.00 - Weekly Sync.md\"\n",
		"source: \"Minute\"\n",
		"# Weekly Sync\n",
		"## Summary\nDiscussed Q2 roadmap.\n",
		"- Ship v2\n",
		"- [ ] Draft spec (Owner: Ana)\n",
		"- Budget flat\n",
		"![[Meetings/_audio/2024-03-05 10.00 - Weekly Sync.wav]]\n",
		"[[Meetings/_transcripts/2024-03-05 10.00 - Weekly Sync.md]]\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("note missing %q\nfull note:\n%s", want, got)
		}
	}

	// Empty Open Questions: header present, no bullets beneath it.
	if !strings.Contains(got, "## Open Questions\n\n") {
		t.Errorf("expected empty Open Questions section with no bullets:\n%s", got)
	}

	if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Error("note must end with exactly one trailing newline")
	}
}

func TestRenderNote_FrontmatterKeyOrder(t *testing.T) {
	got := RenderNote(weeklySync(), "a.wav", "t.md", processedAt)
	fm := strings.SplitN(got, "---\n", 3)[1]
	keys := []string{}
	for _, line := range strings.Split(strings.TrimSpace(fm), "\n") {
		keys = append(keys, strings.SplitN(line, ":", 2)[0])
	}
	want := "type date title audio transcript source"
	if strings.Join(keys, " ") != want {
		t.Errorf("frontmatter key order = %v, want %q", keys, want)
	}
}

func TestRenderNote_OmitsAbsentPaths(t *testing.T) {
	got := RenderNote(weeklySync(), "", "", processedAt)
	for _, absent := range []string{"audio:", "transcript:", "## Audio", "## Transcript"} {
		if strings.Contains(got, absent) {
			t.Errorf("note should not contain %q when paths are absent", absent)
		}
	}
}

func TestRenderNote_SectionsAlwaysPresent(t *testing.T) {
	x := extract.Fallback(processedAt)
	got := RenderNote(x, "", "", processedAt)
	for _, header := range []string{"## Summary", "## Decisions", "## Action Items", "## Open Questions", "## Key Points"} {
		if !strings.Contains(got, header+"\n") {
			t.Errorf("missing section %q even though lists are empty", header)
		}
	}
}

func TestRenderNote_YAMLEscaping(t *testing.T) {
	x := weeklySync()
	x.Title = `He said "go" via C:\path`
	got := RenderNote(x, "", "", processedAt)
	if !strings.Contains(got, `title: "He said \"go\" via C:\\path"`) {
		t.Errorf("title not escaped for YAML:\n%s", got)
	}
}

func TestRenderNote_Deterministic(t *testing.T) {
	x := weeklySync()
	a := RenderNote(x, "a.wav", "t.md", processedAt)
	b := RenderNote(x, "a.wav", "t.md", processedAt)
	if a != b {
		t.Error("RenderNote is not byte-identical for identical inputs")
	}
}

func TestRenderTranscript_Attributed(t *testing.T) {
	got := RenderTranscript(weeklySync(), []transcript.Attributed{
		{Start: 0, End: 12, Speaker: 0, Text: "Morning everyone."},
		{Start: 12, End: 3675, Speaker: 1, Text: "Morning."},
	}, "ignored")

	for _, want := range []string{
		"type: meeting_transcript\n",
		"title: \"Weekly Sync\"\n",
		"source: \"Minute\"\n",
		"# Weekly Sync — Transcript\n",
		"Speaker 1 [00:00 - 00:12]\nMorning everyone.\n",
		"Speaker 2 [00:12 - 01:01:15]\nMorning.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("transcript missing %q\nfull:\n%s", want, got)
		}
	}
	if strings.Contains(got, "ignored") {
		t.Error("plain blob must not be used when attribution exists")
	}
}

func TestRenderTranscript_PlainFallback(t *testing.T) {
	got := RenderTranscript(weeklySync(), nil, "just one long blob of text")
	if !strings.Contains(got, "just one long blob of text\n") {
		t.Errorf("expected plain blob in transcript:\n%s", got)
	}
	if strings.Contains(got, "Speaker 1 [") {
		t.Error("no speaker blocks expected without attribution")
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("transcript must end with a trailing newline")
	}
}
