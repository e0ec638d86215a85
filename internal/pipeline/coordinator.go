// Package pipeline sequences one meeting-processing run: ensure models,
// transcribe, diarize, attribute, summarize, recover the extraction, render,
// and persist. Cancellation is cooperative and cleanup runs no matter how
// the run ends.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"minute/internal/extract"
	"minute/internal/logging"
	"minute/internal/note"
	"minute/internal/services"
	"minute/internal/transcript"
	"minute/internal/vault"
)

// Stage names the coordinator's states. Progress fractions are fixed per
// stage so UI callers can map them onto a single bar.
type Stage string

const (
	StageDownloadingModels Stage = "downloading-models"
	StageTranscribing      Stage = "transcribing"
	StageSummarizing       Stage = "summarizing"
	StageWriting           Stage = "writing"
	StageDone              Stage = "done"
	StageFailed            Stage = "failed"
	StageCancelled         Stage = "cancelled"
)

const (
	progressTranscribing = 0.1
	progressSummarizing  = 0.5
	progressWriting      = 0.85
)

// Context is the immutable per-run configuration. One pipeline invocation
// owns it exclusively.
type Context struct {
	Folders        vault.Folders
	AudioTempPath  string // staged WAV (mono/16kHz/16-bit, enforced upstream)
	StartedAt      time.Time
	StoppedAt      time.Time
	WorkingDir     string // per-run scratch dir; removed on completion
	SaveAudio      bool
	SaveTranscript bool
	ScreenEvents   []transcript.ScreenEvent

	// OnProgress, when set, receives stage transitions and fractional
	// progress in [0,1]. Called synchronously from the run.
	OnProgress func(Stage, float64)
}

// Result is the terminal success value of a run.
type Result struct {
	NotePath  string // vault-relative
	AudioPath string // vault-relative; empty when audio was not saved
}

// Coordinator runs the pipeline. Only one run may be in flight per
// instance; a second Run returns a KindBusy error immediately.
type Coordinator struct {
	transcriber services.Transcriber
	diarizer    services.Diarizer
	summarizer  services.Summarizer
	models      services.ModelManager
	writer      *vault.Writer
	log         *slog.Logger
	inflight    *semaphore.Weighted
}

// New wires a coordinator. All collaborators are required except diarizer,
// which may be nil (treated as permanently unavailable).
func New(t services.Transcriber, d services.Diarizer, s services.Summarizer, m services.ModelManager, w *vault.Writer) *Coordinator {
	if d == nil {
		d = services.NoopDiarizer{}
	}
	return &Coordinator{
		transcriber: t,
		diarizer:    d,
		summarizer:  s,
		models:      m,
		writer:      w,
		log:         logging.New("pipeline"),
		inflight:    semaphore.NewWeighted(1),
	}
}

// Run executes one full pipeline pass. On any exit, success or not,
// temporary artifacts under the process temp root are removed before the
// result propagates.
func (c *Coordinator) Run(ctx context.Context, rc Context) (result *Result, err error) {
	if !c.inflight.TryAcquire(1) {
		return nil, &Error{Kind: KindBusy, Detail: "a run is already in flight"}
	}
	defer c.inflight.Release(1)

	runID := uuid.NewString()
	log := c.log.With("run", runID)
	log.Info("pipeline run starting", "audio", rc.AudioTempPath)

	defer func() {
		c.cleanup(log, rc)
		if err != nil {
			stage := StageFailed
			if KindOf(err) == KindCancelled {
				stage = StageCancelled
			}
			c.report(rc, stage, 0)
		}
	}()

	// Stage: ensure models.
	if err := cancelled(ctx); err != nil {
		return nil, err
	}
	c.report(rc, StageDownloadingModels, 0)
	if err := c.models.EnsurePresent(ctx, func(p float64) {
		c.report(rc, StageDownloadingModels, clamp01(p)*progressTranscribing)
	}); err != nil {
		return nil, &Error{Kind: KindModelUnavailable, Err: err}
	}

	// Stage: transcribe.
	if err := cancelled(ctx); err != nil {
		return nil, err
	}
	c.report(rc, StageTranscribing, progressTranscribing)
	tr, err := c.transcriber.Transcribe(ctx, rc.AudioTempPath)
	if err != nil {
		return nil, &Error{Kind: KindTranscriptionFailed, Err: err}
	}
	log.Info("transcription complete", "segments", len(tr.Segments))

	// Diarization is best-effort: losing speaker attribution is acceptable,
	// aborting the meeting is not. Errors are logged and swallowed.
	var speakers []transcript.SpeakerSegment
	if raw, derr := c.diarizer.Diarize(ctx, rc.AudioTempPath); derr != nil {
		log.Warn("diarization failed; continuing without speakers", "error", derr)
	} else {
		speakers = transcript.RemapSpeakerLabels(raw)
	}

	attributed := transcript.Attribute(tr.Segments, speakers)
	timelineSource := attributed
	if len(timelineSource) == 0 {
		timelineSource = undifferentiated(tr.Segments)
	}
	timelineText := transcript.RenderTimeline(transcript.BuildTimeline(timelineSource, rc.ScreenEvents))

	// Stage: summarize + recovery chain.
	if err := cancelled(ctx); err != nil {
		return nil, err
	}
	c.report(rc, StageSummarizing, progressSummarizing)
	meetingDate := rc.StartedAt.UTC().Format("2006-01-02")
	raw, err := c.summarizer.Summarize(ctx, timelineText, meetingDate)
	if err != nil {
		return nil, &Error{Kind: KindSummarizationFailed, Err: err}
	}

	extraction, err := c.recoverExtraction(ctx, log, raw, rc.StartedAt)
	if err != nil {
		return nil, err
	}
	extract.Validate(extraction, rc.StartedAt)

	// Stage: write.
	if err := cancelled(ctx); err != nil {
		return nil, err
	}
	c.report(rc, StageWriting, progressWriting)

	title := vault.SanitizeFilename(extraction.Title)
	paths, err := c.writer.Reserve(vault.Contract(rc.Folders, rc.StartedAt, title))
	if err != nil {
		return nil, &Error{Kind: KindVaultWriteFailed, Err: err}
	}

	saveAudio := rc.SaveAudio && stagedWAV(rc.AudioTempPath)
	audioRel, transcriptRel := "", ""
	if saveAudio {
		audioRel = paths.Audio
	}
	if rc.SaveTranscript {
		transcriptRel = paths.Transcript
	}

	body := note.RenderNote(extraction, audioRel, transcriptRel, time.Now().UTC())
	if err := c.writer.WriteAtomic(paths.Note, []byte(body)); err != nil {
		return nil, &Error{Kind: KindVaultWriteFailed, Err: err}
	}

	if rc.SaveTranscript {
		text := note.RenderTranscript(extraction, attributed, transcript.PlainText(tr.Segments))
		if err := c.writer.WriteAtomic(paths.Transcript, []byte(text)); err != nil {
			return nil, &Error{Kind: KindVaultWriteFailed, Err: err}
		}
	}

	if saveAudio {
		if err := c.copyAudio(rc.AudioTempPath, paths.Audio); err != nil {
			return nil, &Error{Kind: KindVaultWriteFailed, Err: err}
		}
	}

	c.report(rc, StageDone, 1)
	log.Info("pipeline run complete", "note", paths.Note)

	res := &Result{NotePath: paths.Note}
	if saveAudio {
		res.AudioPath = paths.Audio
	}
	return res, nil
}

// recoverExtraction runs the decode → repair → fallback chain. Exactly one
// repair attempt is made, with the original raw text as its input. The chain
// fails only when the fallback itself cannot be built.
func (c *Coordinator) recoverExtraction(ctx context.Context, log *slog.Logger, raw string, startedAt time.Time) (*extract.Extraction, error) {
	x, decodeErr := extract.Decode(raw)
	if decodeErr == nil {
		return x, nil
	}
	log.Warn("strict decode failed; attempting repair", "error", decodeErr)

	if repaired, rerr := c.summarizer.RepairJSON(ctx, raw); rerr == nil {
		if x, decodeErr = extract.Decode(repaired); decodeErr == nil {
			return x, nil
		}
		log.Warn("decode of repaired output failed", "error", decodeErr)
	} else {
		log.Warn("repair call failed", "error", rerr)
	}

	if startedAt.IsZero() {
		return nil, &Error{Kind: KindJSONInvalid, Detail: "no recording start date for fallback extraction"}
	}
	log.Warn("using fallback extraction")
	return extract.Fallback(startedAt), nil
}

func (c *Coordinator) copyAudio(src, rel string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open staged audio: %w", err)
	}
	defer f.Close()
	return c.writer.WriteAtomicFrom(rel, f)
}

// cleanup removes the run's scratch dir and staged audio, but only paths
// that live under the process temp root. A malformed context must never be
// able to direct deletion elsewhere.
func (c *Coordinator) cleanup(log *slog.Logger, rc Context) {
	for _, p := range []string{rc.WorkingDir, rc.AudioTempPath} {
		if p == "" {
			continue
		}
		if !underTempRoot(p) {
			log.Warn("refusing to clean path outside temp root", "path", p)
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			log.Warn("cleanup failed", "path", p, "error", err)
		}
	}
}

func underTempRoot(p string) bool {
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	root := filepath.Clean(os.TempDir())
	return strings.HasPrefix(abs, root+string(filepath.Separator))
}

// stagedWAV gates SaveAudio: the upstream capture contract guarantees a WAV
// payload, so anything else means the contract was not satisfied.
func stagedWAV(p string) bool {
	if p == "" || !strings.EqualFold(filepath.Ext(p), ".wav") {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func undifferentiated(segs []transcript.Segment) []transcript.Attributed {
	out := make([]transcript.Attributed, 0, len(segs))
	for _, s := range segs {
		t := strings.TrimSpace(s.Text)
		if t == "" {
			continue
		}
		out = append(out, transcript.Attributed{Start: s.Start, End: s.End, Speaker: 0, Text: t})
	}
	return out
}

func (c *Coordinator) report(rc Context, stage Stage, p float64) {
	if rc.OnProgress != nil {
		rc.OnProgress(stage, clamp01(p))
	}
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: KindCancelled, Err: err}
	}
	return nil
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
