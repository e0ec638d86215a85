package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"minute/internal/vault"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check prerequisites and configuration",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ok := true

	if _, err := exec.LookPath(cfg.Transcriber.Command); err != nil {
		check(false, "transcriber", "%s not found on PATH", cfg.Transcriber.Command)
		ok = false
	} else {
		check(true, "transcriber", "%s", cfg.Transcriber.Command)
	}

	if cfg.Transcriber.Model != "" {
		if _, err := os.Stat(cfg.Transcriber.Model); err != nil {
			check(false, "model", "%s missing", cfg.Transcriber.Model)
			ok = false
		} else {
			check(true, "model", "%s", cfg.Transcriber.Model)
		}
	}

	if cfg.Diarizer.Command == "" {
		check(true, "diarizer", "not configured (speaker attribution disabled)")
	} else if _, err := exec.LookPath(cfg.Diarizer.Command); err != nil {
		check(false, "diarizer", "%s not found on PATH", cfg.Diarizer.Command)
		ok = false
	} else {
		check(true, "diarizer", "%s", cfg.Diarizer.Command)
	}

	if _, err := readAPIKey(cfg.Summarizer.APIKeyFile); err != nil {
		check(false, "summarizer key", "%s unreadable: put the API key on the first line", cfg.Summarizer.APIKeyFile)
		ok = false
	} else {
		check(true, "summarizer key", "%s", cfg.Summarizer.APIKeyFile)
	}

	if _, err := vault.NewWriter(cfg.VaultRoot); err != nil {
		check(false, "vault", "%v", err)
		ok = false
	} else {
		check(true, "vault", "%s", cfg.VaultRoot)
	}

	if !ok {
		return fmt.Errorf("some prerequisites are missing")
	}
	fmt.Println("\nAll prerequisites met.")
	return nil
}

func check(ok bool, name, detail string, args ...any) {
	mark := "ok  "
	if !ok {
		mark = "FAIL"
	}
	fmt.Printf("  %s %-15s %s\n", mark, name, fmt.Sprintf(detail, args...))
}
