package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"minute/internal/format"
)

var listFlags struct {
	vaultRoot string
	markdown  bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List meetings in the vault",
	RunE:  runList,
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listFlags.vaultRoot, "vault", "", "Vault root directory (default: from config)")
	f.BoolVar(&listFlags.markdown, "markdown", false, "Render the listing as a Markdown table")
}

// noteStem matches "<YYYY-MM-DD HH.MM> - <Title>" note filenames.
var noteStem = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}) (\d{2}\.\d{2}) - (.+)$`)

type meetingRow struct {
	date, clock, title string
	hasAudio           bool
	hasTranscript      bool
}

func runList(cmd *cobra.Command, args []string) error {
	vaultRoot := listFlags.vaultRoot
	if vaultRoot == "" {
		vaultRoot = cfg.VaultRoot
	}

	meetingsDir := filepath.Join(vaultRoot, filepath.FromSlash(cfg.Folders.Meetings))
	audioDir := filepath.Join(vaultRoot, filepath.FromSlash(cfg.Folders.Audio))
	transcriptsDir := filepath.Join(vaultRoot, filepath.FromSlash(cfg.Folders.Transcripts))

	var rows []meetingRow
	err := filepath.WalkDir(meetingsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// The audio and transcript folders usually nest under the
			// meetings root; their files are not notes.
			if path == audioDir || path == transcriptsDir {
				return filepath.SkipDir
			}
			return nil
		}
		stem := strings.TrimSuffix(d.Name(), ".md")
		if stem == d.Name() {
			return nil
		}
		m := noteStem.FindStringSubmatch(stem)
		if m == nil {
			return nil
		}
		rows = append(rows, meetingRow{
			date:          m[1],
			clock:         strings.ReplaceAll(m[2], ".", ":"),
			title:         m[3],
			hasAudio:      exists(filepath.Join(audioDir, stem+".wav")),
			hasTranscript: exists(filepath.Join(transcriptsDir, stem+".md")),
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No meetings found.")
			return nil
		}
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No meetings found.")
		return nil
	}

	// Newest first.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].date != rows[j].date {
			return rows[i].date > rows[j].date
		}
		return rows[i].clock > rows[j].clock
	})

	mode := format.ASCII
	if listFlags.markdown {
		mode = format.Markdown
	}
	tbl := format.NewTable(mode)
	tbl.Header("Date", "Time", "Title", "Audio", "Transcript")
	tbl.MaxWidth(3, 60)
	for _, r := range rows {
		tbl.Row(r.date, r.clock, r.title, format.Mark(r.hasAudio), format.Mark(r.hasTranscript))
	}
	fmt.Println(tbl.String())
	fmt.Println(format.Count(len(rows), "meeting"))
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
