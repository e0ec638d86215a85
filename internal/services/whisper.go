package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"minute/internal/transcript"
)

// WhisperTranscriber runs a whisper-compatible CLI (whisper-cli, whisper.cpp
// main, faster-whisper wrapper) that emits verbose JSON on stdout.
type WhisperTranscriber struct {
	Command string   // binary to invoke
	Model   string   // model path or name, passed as -m
	Args    []string // extra arguments appended verbatim
}

type whisperOut struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (*TranscriptionResult, error) {
	args := []string{"-m", w.Model, "--output-json", "-f", audioPath}
	args = append(args, w.Args...)

	cmd := exec.CommandContext(ctx, w.Command, args...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%s failed: %s", w.Command, strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("run %s: %w", w.Command, err)
	}
	return parseWhisperOutput(out)
}

func parseWhisperOutput(out []byte) (*TranscriptionResult, error) {
	var parsed whisperOut
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("parse transcriber output: %w", err)
	}
	res := &TranscriptionResult{Text: strings.TrimSpace(parsed.Text)}
	for _, s := range parsed.Segments {
		res.Segments = append(res.Segments, transcript.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	if res.Text == "" {
		res.Text = transcript.PlainText(res.Segments)
	}
	return res, nil
}
