package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Subject", "Accuracy", "Reviews"}
	rows := [][]string{
		{"Math", "97%", "12"},
		{"Chemistry", "8%", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Subject   Accuracy Reviews" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Math           97%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Chemistry       8%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableCountsWideRunes(t *testing.T) {
	lines := formatTable([]string{"科目", "ID"}, [][]string{{"数学", "1"}, {"Art", "22"}}, nil)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "科目 ID" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[2] != "Art  22" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected truncate result: %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("unexpected truncate result: %q", got)
	}
	if got := truncate("一二三四五", 6); displayWidth(got) > 6 {
		t.Fatalf("truncated value too wide: %q", got)
	}
	if got := truncate("abcdefghij", 0); got != "abcdefghij" {
		t.Fatalf("width 0 must not truncate: %q", got)
	}
}
