package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"minute/internal/pipeline"
	"minute/internal/services"
	"minute/internal/transcript"
	"minute/internal/vault"
)

var processFlags struct {
	vaultRoot    string
	noAudio      bool
	noTranscript bool
	screenEvents string
	startedAt    string
}

var processCmd = &cobra.Command{
	Use:   "process <audio-file>",
	Short: "Process a meeting recording into vault artifacts",
	Long: `Process transcribes the recording, attributes speakers when diarization
is available, asks the summarization model for a structured summary, and
writes the note, transcript, and audio copy into the vault.

The recording's start time defaults to the audio file's modification time;
pass --started-at to override.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	f := processCmd.Flags()
	f.StringVar(&processFlags.vaultRoot, "vault", "", "Vault root directory (default: from config)")
	f.BoolVar(&processFlags.noAudio, "no-audio", false, "Do not copy the audio into the vault")
	f.BoolVar(&processFlags.noTranscript, "no-transcript", false, "Do not write the transcript file")
	f.StringVar(&processFlags.screenEvents, "screen-events", "", "JSON file with screen-context events")
	f.StringVar(&processFlags.startedAt, "started-at", "", "Recording start time (RFC 3339)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	audioPath := args[0]
	info, err := os.Stat(audioPath)
	if err != nil {
		return fmt.Errorf("audio file: %w", err)
	}

	startedAt := info.ModTime()
	if processFlags.startedAt != "" {
		startedAt, err = time.Parse(time.RFC3339, processFlags.startedAt)
		if err != nil {
			return fmt.Errorf("parse --started-at: %w", err)
		}
	}

	var events []transcript.ScreenEvent
	if processFlags.screenEvents != "" {
		events, err = loadScreenEvents(processFlags.screenEvents)
		if err != nil {
			return err
		}
	}

	vaultRoot := processFlags.vaultRoot
	if vaultRoot == "" {
		vaultRoot = cfg.VaultRoot
	}
	writer, err := vault.NewWriter(vaultRoot)
	if err != nil {
		return err
	}

	// The pipeline owns and eventually deletes its staging area, so the
	// user's original recording is copied into a scratch dir first.
	workDir, err := os.MkdirTemp("", "minute-*")
	if err != nil {
		return fmt.Errorf("create working dir: %w", err)
	}
	staged := filepath.Join(workDir, "recording"+strings.ToLower(filepath.Ext(audioPath)))
	if err := copyFile(audioPath, staged); err != nil {
		os.RemoveAll(workDir)
		return fmt.Errorf("stage audio: %w", err)
	}

	coordinator, err := buildCoordinator(writer)
	if err != nil {
		os.RemoveAll(workDir)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rc := pipeline.Context{
		Folders:        cfg.Folders,
		AudioTempPath:  staged,
		StartedAt:      startedAt,
		StoppedAt:      time.Now(),
		WorkingDir:     workDir,
		SaveAudio:      cfg.SaveAudio && !processFlags.noAudio,
		SaveTranscript: cfg.SaveTranscript && !processFlags.noTranscript,
		ScreenEvents:   events,
		OnProgress:     printProgress,
	}

	res, err := coordinator.Run(ctx, rc)
	if err != nil {
		return err
	}

	fmt.Printf("\nNote: %s\n", filepath.Join(writer.Root(), filepath.FromSlash(res.NotePath)))
	if res.AudioPath != "" {
		fmt.Printf("Audio: %s\n", filepath.Join(writer.Root(), filepath.FromSlash(res.AudioPath)))
	}
	return nil
}

// buildCoordinator wires production collaborators from the config.
func buildCoordinator(writer *vault.Writer) (*pipeline.Coordinator, error) {
	transcriber := &services.WhisperTranscriber{
		Command: cfg.Transcriber.Command,
		Model:   cfg.Transcriber.Model,
	}

	var diarizer services.Diarizer = services.NoopDiarizer{}
	if cfg.Diarizer.Command != "" {
		diarizer = &services.ExecDiarizer{Command: cfg.Diarizer.Command}
	}

	apiKey, err := readAPIKey(cfg.Summarizer.APIKeyFile)
	if err != nil {
		return nil, fmt.Errorf("summarizer API key: %w (create %s with the key on the first line)", err, cfg.Summarizer.APIKeyFile)
	}
	summarizer := &services.HTTPSummarizer{
		BaseURL: cfg.Summarizer.BaseURL,
		APIKey:  apiKey,
		Model:   cfg.Summarizer.Model,
	}

	modelPaths := cfg.ModelPaths
	if len(modelPaths) == 0 && cfg.Transcriber.Model != "" {
		modelPaths = []string{cfg.Transcriber.Model}
	}
	models := &services.StaticModelManager{Paths: modelPaths}

	return pipeline.New(transcriber, diarizer, summarizer, models, writer), nil
}

var lastStage pipeline.Stage

func printProgress(stage pipeline.Stage, p float64) {
	if stage == lastStage {
		return
	}
	lastStage = stage
	switch stage {
	case pipeline.StageDownloadingModels:
		fmt.Println("Checking models...")
	case pipeline.StageTranscribing:
		fmt.Println("Transcribing...")
	case pipeline.StageSummarizing:
		fmt.Println("Summarizing...")
	case pipeline.StageWriting:
		fmt.Println("Writing to vault...")
	}
}

func loadScreenEvents(path string) ([]transcript.ScreenEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read screen events: %w", err)
	}
	var events []transcript.ScreenEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse screen events: %w", err)
	}
	return events, nil
}

func readAPIKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	if line == "" {
		return "", fmt.Errorf("%s is empty", path)
	}
	return line, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
