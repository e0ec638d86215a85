package format

import (
	"strings"
	"testing"
)

func TestTable_ASCII(t *testing.T) {
	tbl := NewTable(ASCII)
	tbl.Header("Date", "Title")
	tbl.Row("2024-03-05", "Weekly Sync")

	out := tbl.String()
	if !strings.Contains(out, "Weekly Sync") {
		t.Errorf("missing row content:\n%s", out)
	}
	if !strings.Contains(out, "DATE") && !strings.Contains(out, "Date") {
		t.Errorf("missing header:\n%s", out)
	}
}

func TestTable_Markdown(t *testing.T) {
	tbl := NewTable(Markdown)
	tbl.Header("A", "B")
	tbl.Row(1, 2)

	out := tbl.String()
	if !strings.Contains(out, "|") {
		t.Errorf("markdown table should use pipes:\n%s", out)
	}
}

func TestMark(t *testing.T) {
	if Mark(true) != "yes" || Mark(false) != "-" {
		t.Error("Mark output unexpected")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdefgh", 6); got != "abc..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestCount(t *testing.T) {
	if got := Count(1, "meeting"); got != "1 meeting" {
		t.Errorf("Count = %q", got)
	}
	if got := Count(3, "meeting"); got != "3 meetings" {
		t.Errorf("Count = %q", got)
	}
}
