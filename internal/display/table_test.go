package display

import (
	"strings"
	"testing"
)

func TestScheduleAlignment(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(shouldEnable())

	rows := [][2]string{
		{"Fajr", "05:41"},
		{"Maghrib", "19:22"},
	}
	out := Schedule(rows, "")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Prayer") || !strings.Contains(lines[0], "Time") {
		t.Errorf("header missing column names: %q", lines[0])
	}
	if !strings.Contains(lines[1], "─") {
		t.Errorf("separator missing: %q", lines[1])
	}

	// Time columns must start at the same offset in every row.
	idx := strings.Index(lines[2], "05:41")
	if idx < 0 {
		t.Fatalf("Fajr time missing: %q", lines[2])
	}
	if got := strings.Index(lines[3], "19:22"); got != idx {
		t.Errorf("time column misaligned: %d vs %d", got, idx)
	}
}

func TestScheduleHighlight(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(shouldEnable())

	rows := [][2]string{
		{"Asr", "16:38"},
		{"Isha", "20:33"},
	}
	out := Schedule(rows, "Asr")

	lines := strings.Split(out, "\n")
	var asrLine, ishaLine string
	for _, l := range lines {
		if strings.Contains(l, "Asr") {
			asrLine = l
		}
		if strings.Contains(l, "Isha") {
			ishaLine = l
		}
	}
	if !strings.Contains(asrLine, yellow) {
		t.Errorf("next row not highlighted: %q", asrLine)
	}
	if strings.Contains(ishaLine, yellow) {
		t.Errorf("non-next row highlighted: %q", ishaLine)
	}
}

func TestPaintDisabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(shouldEnable())

	if got := Accent("x"); got != "x" {
		t.Errorf("Accent with color disabled = %q, want %q", got, "x")
	}
	if got := Bold("y"); got != "y" {
		t.Errorf("Bold with color disabled = %q, want %q", got, "y")
	}
}
