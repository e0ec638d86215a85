// Package services defines the external collaborator boundary: the
// transcription, diarization, summarization, and model-management runtimes
// the pipeline consumes. The pipeline never trusts their output; everything
// text-shaped goes through the extract package before rendering.
package services

import (
	"context"
	"errors"

	"minute/internal/transcript"
)

// TranscriptionResult is the transcriber's output: the full text plus the
// timed segments it was derived from.
type TranscriptionResult struct {
	Text     string
	Segments []transcript.Segment
}

// Transcriber converts an audio file into timed text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*TranscriptionResult, error)
}

// Diarizer assigns speaker labels to time intervals of an audio file.
// Callers treat every failure as "no speakers available".
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string) ([]transcript.RawSpeakerSegment, error)
}

// Summarizer produces the structured-summary text from a rendered timeline,
// and can attempt one repair pass over output that failed to decode. Both
// return unstructured text that must go through the extract recovery chain.
type Summarizer interface {
	Summarize(ctx context.Context, timeline, meetingDate string) (string, error)
	RepairJSON(ctx context.Context, raw string) (string, error)
}

// ModelManager ensures the local model files the other collaborators need
// are present, reporting fractional progress in [0,1].
type ModelManager interface {
	EnsurePresent(ctx context.Context, progress func(float64)) error
}

// Model-management failure kinds, matched with errors.Is.
var (
	ErrModelMissing     = errors.New("model file missing")
	ErrChecksumMismatch = errors.New("model checksum mismatch")
	ErrDownloadFailed   = errors.New("model download failed")
)
