package stats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/mistakebook/internal/model"
)

const (
	reportWeakest = 5
	reportTopTags = 10
)

// Source lists mistakes for a report.
type Source interface {
	ListMistakes(ctx context.Context, filter model.Filter) ([]model.Mistake, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Filter   model.Filter
	Mistakes []model.Mistake
	Summary  Summary
	Weakest  []model.Mistake
	TopTags  []TagCount
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, filter model.Filter) (Report, error) {
	mistakes, err := src.ListMistakes(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Filter:   filter,
		Mistakes: mistakes,
		Summary:  Summarize(mistakes),
		Weakest:  WeakestMistakes(mistakes, reportWeakest),
		TopTags:  TopTags(mistakes, reportTopTags),
	}, nil
}

// RenderReport prints the summary, weakest mistakes and top tags.
func RenderReport(w io.Writer, r Report, questionWidth int) error {
	if !r.Filter.IsZero() {
		if _, err := fmt.Fprintf(w, "Filter: %s\n\n", FilterLabel(r.Filter)); err != nil {
			return err
		}
	}
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if len(r.Weakest) > 0 {
		if _, err := fmt.Fprintln(w, "Weakest"); err != nil {
			return err
		}
		if err := RenderMistakeTable(w, r.Weakest, questionWidth); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	if len(r.TopTags) > 0 {
		if _, err := fmt.Fprintln(w, "Top Tags"); err != nil {
			return err
		}
		rows := make([][]string, 0, len(r.TopTags))
		for _, tc := range r.TopTags {
			rows = append(rows, []string{tc.Tag, fmt.Sprintf("%d", tc.Count)})
		}
		if err := writeLines(w, formatTable([]string{"Tag", "Mistakes"}, rows, map[int]bool{1: true})); err != nil {
			return err
		}
	}
	return nil
}

// FilterLabel renders the active constraints of a filter.
func FilterLabel(f model.Filter) string {
	if f.IsZero() {
		return "all"
	}
	var parts []string
	if f.Subject != "" {
		parts = append(parts, "subject="+f.Subject)
	}
	if f.Tag != "" {
		parts = append(parts, "tag="+f.Tag)
	}
	if f.QuestionType != "" {
		parts = append(parts, "type="+f.QuestionType.String())
	}
	if f.Difficulty != 0 {
		parts = append(parts, fmt.Sprintf("difficulty=%d", f.Difficulty))
	}
	return strings.Join(parts, " ")
}
