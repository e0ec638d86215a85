// Package vault computes the deterministic output-path contract and persists
// artifacts atomically inside a sandboxed root directory.
package vault

import (
	"fmt"
	"path"
	"time"
)

// Folders are the three vault-relative roots artifacts land under.
type Folders struct {
	Meetings    string `yaml:"meetings" json:"meetings"`
	Audio       string `yaml:"audio" json:"audio"`
	Transcripts string `yaml:"transcripts" json:"transcripts"`
}

// DefaultFolders returns the standard vault layout.
func DefaultFolders() Folders {
	return Folders{
		Meetings:    "Meetings",
		Audio:       "Meetings/_audio",
		Transcripts: "Meetings/_transcripts",
	}
}

// Paths are the three canonical vault-relative output paths for one meeting.
type Paths struct {
	Note       string
	Audio      string
	Transcript string
}

// Contract computes the output paths for a meeting started at startedAt with
// the given (already sanitized) title.
//
// Folder grouping (<YYYY>/<MM>) uses startedAt's own calendar, while the
// "YYYY-MM-DD HH.MM" stamp inside filenames is computed in UTC. Around
// midnight in non-UTC zones the two can disagree; this asymmetry is
// long-standing and kept as-is, since changing either side would move
// existing meetings to different paths.
func Contract(folders Folders, startedAt time.Time, title string) Paths {
	stamp := startedAt.UTC().Format("2006-01-02 15.04")
	stem := fmt.Sprintf("%s - %s", stamp, title)

	year := fmt.Sprintf("%04d", startedAt.Year())
	month := fmt.Sprintf("%02d", int(startedAt.Month()))

	return Paths{
		Note:       path.Join(folders.Meetings, year, month, stem+".md"),
		Audio:      path.Join(folders.Audio, stem+".wav"),
		Transcript: path.Join(folders.Transcripts, stem+".md"),
	}
}

// withSuffix appends " (n)" to the stem of every path, keeping extensions.
// Used by the reservation step so the note, audio, and transcript names stay
// consistent with each other.
func (p Paths) withSuffix(n int) Paths {
	return Paths{
		Note:       suffixStem(p.Note, n),
		Audio:      suffixStem(p.Audio, n),
		Transcript: suffixStem(p.Transcript, n),
	}
}

func suffixStem(rel string, n int) string {
	ext := path.Ext(rel)
	return fmt.Sprintf("%s (%d)%s", rel[:len(rel)-len(ext)], n, ext)
}
