package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"minute/internal/transcript"
)

// NoopDiarizer reports no speakers. Used when no diarization tool is
// configured; the pipeline then renders an undifferentiated transcript.
type NoopDiarizer struct{}

func (NoopDiarizer) Diarize(ctx context.Context, audioPath string) ([]transcript.RawSpeakerSegment, error) {
	return nil, nil
}

// ExecDiarizer runs an external diarization tool that prints a JSON array of
// {"speaker","start","end"} objects on stdout.
type ExecDiarizer struct {
	Command string
	Args    []string
}

func (d *ExecDiarizer) Diarize(ctx context.Context, audioPath string) ([]transcript.RawSpeakerSegment, error) {
	args := append(append([]string{}, d.Args...), audioPath)
	cmd := exec.CommandContext(ctx, d.Command, args...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%s failed: %s", d.Command, strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("run %s: %w", d.Command, err)
	}
	var segs []transcript.RawSpeakerSegment
	if err := json.Unmarshal(out, &segs); err != nil {
		return nil, fmt.Errorf("parse diarizer output: %w", err)
	}
	return segs, nil
}
