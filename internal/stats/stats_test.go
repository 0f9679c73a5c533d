package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/mistakebook/internal/model"
	"github.com/verte-zerg/mistakebook/internal/options"
)

func TestAccuracyAndProgress(t *testing.T) {
	fresh := model.Mistake{}
	if Accuracy(fresh) != 0 || AccuracyPercent(fresh) != 0 {
		t.Fatalf("unreviewed mistake must have zero accuracy")
	}
	if ProgressLabel(fresh) != NotReviewed {
		t.Fatalf("unexpected progress label: %q", ProgressLabel(fresh))
	}

	m := model.Mistake{ReviewCount: 3, CorrectCount: 2}
	if got := AccuracyPercent(m); got != 67 {
		t.Fatalf("expected rounded 67%%, got %d", got)
	}
	if got := ProgressLabel(m); got != "2/3" {
		t.Fatalf("unexpected progress label: %q", got)
	}
	if got := Accuracy(model.Mistake{ReviewCount: 8, CorrectCount: 1}); got != 0.125 {
		t.Fatalf("unexpected accuracy: %v", got)
	}
}

func TestLastReviewLabel(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) model.Mistake {
		ts := now.Add(-d)
		return model.Mistake{LastReviewedAt: &ts, ReviewCount: 1}
	}
	cases := []struct {
		m    model.Mistake
		want string
	}{
		{model.Mistake{}, Never},
		{at(10 * time.Second), "just now"},
		{at(5 * time.Minute), "5m ago"},
		{at(3 * time.Hour), "3h ago"},
		{at(50 * time.Hour), "2d ago"},
	}
	for _, tc := range cases {
		if got := LastReviewLabel(tc.m, now); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
	old := at(90 * 24 * time.Hour)
	if got := LastReviewLabel(old, now); got != old.LastReviewedAt.Local().Format("2006-01-02") {
		t.Fatalf("expected a date for old reviews, got %q", got)
	}
}

func TestHistoryStrip(t *testing.T) {
	reviews := []model.Review{
		{ID: 3, Result: false},
		{ID: 2, Result: true},
		{ID: 1, Result: true},
	}
	if got := HistoryStrip(reviews, 0); got != "✓✓✗" {
		t.Fatalf("unexpected strip: %q", got)
	}
	if got := HistoryStrip(reviews, 2); got != "✓✗" {
		t.Fatalf("unexpected limited strip: %q", got)
	}
	if got := HistoryStrip(nil, 5); got != "" {
		t.Fatalf("expected empty strip, got %q", got)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]model.Mistake{
		{Subject: "Physics", QuestionType: model.FillBlank, Difficulty: 3, ReviewCount: 2, CorrectCount: 1},
		{Subject: "Math", QuestionType: model.SingleChoice, Difficulty: 1},
		{Subject: "Math", QuestionType: model.SingleChoice, Difficulty: 3, ReviewCount: 4, CorrectCount: 3},
	})
	if sum.Mistakes != 3 || sum.Reviewed != 2 || sum.Reviews != 6 || sum.Correct != 4 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if sum.ByType[model.SingleChoice] != 2 || sum.ByDifficulty[3] != 2 {
		t.Fatalf("unexpected breakdown: %+v", sum)
	}
	if len(sum.Subjects) != 2 || sum.Subjects[0].Subject != "Math" || sum.Subjects[1].Subject != "Physics" {
		t.Fatalf("unexpected subjects: %+v", sum.Subjects)
	}
	if sum.Subjects[0].Mistakes != 2 || sum.Subjects[0].Accuracy() != 0.75 {
		t.Fatalf("unexpected math summary: %+v", sum.Subjects[0])
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Summarize(nil)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No mistakes found.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderMistakeTable(t *testing.T) {
	var buf bytes.Buffer
	mistakes := []model.Mistake{
		{ID: 7, Subject: "Math", QuestionType: model.SingleChoice, QuestionText: "2+2=?", Difficulty: 1, ReviewCount: 2, CorrectCount: 1},
		{ID: 12, Subject: "History", QuestionType: model.FreeResponse, QuestionText: "Explain the causes\nof the war in detail", Difficulty: 4},
	}
	if err := RenderMistakeTable(&buf, mistakes, 12); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", buf.String())
	}
	if !strings.Contains(lines[1], "1/2") || !strings.Contains(lines[1], "50%") {
		t.Fatalf("missing progress columns: %q", lines[1])
	}
	if !strings.Contains(lines[2], NotReviewed) || !strings.Contains(lines[2], "Explain the…") {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
}

func TestRenderMistake(t *testing.T) {
	last := time.Date(2026, 5, 10, 11, 0, 0, 0, time.UTC)
	m := model.Mistake{
		ID:             1,
		Subject:        "Math",
		QuestionType:   model.SingleChoice,
		Options:        options.Set{{Label: "A", Text: "3"}, {Label: "B", Text: "4"}},
		QuestionText:   "2+2=?",
		CorrectAnswer:  "B",
		Tags:           []string{"arithmetic"},
		Difficulty:     1,
		LastReviewedAt: &last,
		ReviewCount:    2,
		CorrectCount:   1,
	}
	reviews := []model.Review{{Result: false}, {Result: true}}
	var buf bytes.Buffer
	if err := RenderMistake(&buf, m, reviews, last.Add(2*time.Hour)); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"  B. 4", "Correct answer: B", "Progress:       1/2", "Accuracy:       50%", "Last review:    2h ago", "History:        ✓✗"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No reviews yet.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	buf.Reset()
	reviews := []model.Review{
		{ReviewedAt: time.Date(2026, 5, 10, 11, 0, 0, 0, time.UTC), Result: true, UserAnswer: "B"},
		{ReviewedAt: time.Date(2026, 5, 9, 11, 0, 0, 0, time.UTC), Result: false, UserAnswer: "A"},
	}
	if err := RenderHistory(&buf, reviews); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[1], "✓") || !strings.HasSuffix(strings.TrimRight(lines[1], " "), "B") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "✗") || !strings.HasSuffix(strings.TrimRight(lines[2], " "), "A") {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
}
