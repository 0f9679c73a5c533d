package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/mistakebook/internal/model"
	"github.com/verte-zerg/mistakebook/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "mistakebook.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i, subject := range []string{"Math", "Math", "Physics"} {
		id, err := st.AddMistake(ctx, model.MistakeFields{
			Subject:       subject,
			QuestionType:  model.FillBlank,
			QuestionText:  "question",
			CorrectAnswer: "answer",
			Tags:          []string{"core"},
			Difficulty:    i + 1,
		})
		if err != nil {
			t.Fatalf("add mistake: %v", err)
		}
		ids = append(ids, id)
	}
	for _, res := range []bool{true, false, false} {
		if _, err := st.AppendReview(ctx, ids[0], res, "x"); err != nil {
			t.Fatalf("append review: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.Filter{Subject: "Math"})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Mistakes) != 2 {
		t.Fatalf("expected 2 mistakes, got %d", len(report.Mistakes))
	}
	if report.Summary.Reviews != 3 || report.Summary.Correct != 1 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if len(report.Weakest) != 1 || report.Weakest[0].ID != ids[0] {
		t.Fatalf("unexpected weakest: %+v", report.Weakest)
	}
	if len(report.TopTags) != 1 || report.TopTags[0].Count != 2 {
		t.Fatalf("unexpected top tags: %+v", report.TopTags)
	}

	var buf bytes.Buffer
	if err := RenderReport(&buf, report, 20); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Filter: subject=Math", "Accuracy: 33%", "Weakest", "Top Tags"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFilterLabel(t *testing.T) {
	if got := FilterLabel(model.Filter{}); got != "all" {
		t.Fatalf("unexpected label: %q", got)
	}
	got := FilterLabel(model.Filter{Tag: "algebra", QuestionType: model.TrueFalse, Difficulty: 2})
	if got != "tag=algebra type=true_false difficulty=2" {
		t.Fatalf("unexpected label: %q", got)
	}
}
