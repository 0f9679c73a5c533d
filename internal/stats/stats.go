// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/mistakebook/internal/model"
)

// NotReviewed is the progress label of a mistake that was never reviewed.
const NotReviewed = "not reviewed"

// Never is the last review label of a mistake that was never reviewed.
const Never = "never"

const (
	markCorrect   = "✓"
	markIncorrect = "✗"
)

// Accuracy returns correct/review counts, or 0 for an unreviewed mistake.
func Accuracy(m model.Mistake) float64 {
	return ratio(m.CorrectCount, m.ReviewCount)
}

// AccuracyPercent returns Accuracy as a rounded percentage.
func AccuracyPercent(m model.Mistake) int {
	return percent(m.CorrectCount, m.ReviewCount)
}

// ProgressLabel renders "correct/reviews", or NotReviewed.
func ProgressLabel(m model.Mistake) string {
	if m.ReviewCount == 0 {
		return NotReviewed
	}
	return fmt.Sprintf("%d/%d", m.CorrectCount, m.ReviewCount)
}

// LastReviewLabel describes how long ago the mistake was last reviewed.
func LastReviewLabel(m model.Mistake, now time.Time) string {
	if m.LastReviewedAt == nil {
		return Never
	}
	d := now.Sub(*m.LastReviewedAt)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
	return m.LastReviewedAt.Local().Format("2006-01-02")
}

// HistoryStrip renders reviews as a ✓/✗ strip, oldest on the left.
// reviews are expected most recent first, as the store returns them.
// A positive limit keeps only the most recent attempts.
func HistoryStrip(reviews []model.Review, limit int) string {
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	var b strings.Builder
	for i := len(reviews) - 1; i >= 0; i-- {
		if reviews[i].Result {
			b.WriteString(markCorrect)
		} else {
			b.WriteString(markIncorrect)
		}
	}
	return b.String()
}

// SubjectSummary aggregates the mistakes of one subject.
type SubjectSummary struct {
	Subject  string
	Mistakes int
	Reviewed int
	Reviews  int
	Correct  int
}

// Accuracy returns the share of correct reviews.
func (s SubjectSummary) Accuracy() float64 {
	return ratio(s.Correct, s.Reviews)
}

// Summary aggregates a set of mistakes.
type Summary struct {
	Mistakes     int
	Reviewed     int
	Reviews      int
	Correct      int
	ByType       map[model.QuestionType]int
	ByDifficulty map[int]int
	Subjects     []SubjectSummary
}

// Accuracy returns the share of correct reviews.
func (s Summary) Accuracy() float64 {
	return ratio(s.Correct, s.Reviews)
}

// Summarize aggregates mistakes overall and per subject.
func Summarize(mistakes []model.Mistake) Summary {
	sum := Summary{
		ByType:       map[model.QuestionType]int{},
		ByDifficulty: map[int]int{},
	}
	bySubject := map[string]*SubjectSummary{}
	for _, m := range mistakes {
		sub, ok := bySubject[m.Subject]
		if !ok {
			sub = &SubjectSummary{Subject: m.Subject}
			bySubject[m.Subject] = sub
		}
		sum.Mistakes++
		sub.Mistakes++
		if m.ReviewCount > 0 {
			sum.Reviewed++
			sub.Reviewed++
		}
		sum.Reviews += m.ReviewCount
		sub.Reviews += m.ReviewCount
		sum.Correct += m.CorrectCount
		sub.Correct += m.CorrectCount
		sum.ByType[m.QuestionType]++
		sum.ByDifficulty[m.Difficulty]++
	}
	sum.Subjects = make([]SubjectSummary, 0, len(bySubject))
	for _, sub := range bySubject {
		sum.Subjects = append(sum.Subjects, *sub)
	}
	sort.Slice(sum.Subjects, func(i, j int) bool {
		return sum.Subjects[i].Subject < sum.Subjects[j].Subject
	})
	return sum
}

// RenderSummary prints overall totals and a per-subject table.
func RenderSummary(w io.Writer, sum Summary) error {
	if sum.Mistakes == 0 {
		_, err := fmt.Fprintln(w, "No mistakes found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Mistakes: %d (%d reviewed, %d never)\n", sum.Mistakes, sum.Reviewed, sum.Mistakes-sum.Reviewed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Reviews: %d\n", sum.Reviews); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy: %d%%\n", percent(sum.Correct, sum.Reviews)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	headers := []string{"Subject", "Mistakes", "Reviewed", "Reviews", "Accuracy"}
	rows := make([][]string, 0, len(sum.Subjects))
	for _, s := range sum.Subjects {
		rows = append(rows, []string{
			s.Subject,
			fmt.Sprintf("%d", s.Mistakes),
			fmt.Sprintf("%d", s.Reviewed),
			fmt.Sprintf("%d", s.Reviews),
			fmt.Sprintf("%d%%", percent(s.Correct, s.Reviews)),
		})
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderMistakeTable prints one row per mistake. Questions are cut to
// questionWidth display columns when it is positive.
func RenderMistakeTable(w io.Writer, mistakes []model.Mistake, questionWidth int) error {
	if len(mistakes) == 0 {
		_, err := fmt.Fprintln(w, "No mistakes found.")
		return err
	}
	headers := []string{"ID", "Subject", "Type", "Question", "Diff", "Progress", "Accuracy"}
	rows := make([][]string, 0, len(mistakes))
	for _, m := range mistakes {
		acc := "-"
		if m.ReviewCount > 0 {
			acc = fmt.Sprintf("%d%%", AccuracyPercent(m))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", m.ID),
			m.Subject,
			m.QuestionType.Label(),
			truncate(singleLine(m.QuestionText), questionWidth),
			fmt.Sprintf("%d", m.Difficulty),
			ProgressLabel(m),
			acc,
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 4: true, 6: true}))
}

// RenderMistake prints every field of a mistake followed by its statistics.
func RenderMistake(w io.Writer, m model.Mistake, reviews []model.Review, now time.Time) error {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d  %s  [%s]  difficulty %d\n", m.ID, m.Subject, m.QuestionType.Label(), m.Difficulty)
	fmt.Fprintf(&b, "\n%s\n", m.QuestionText)
	if len(m.Options) > 0 {
		b.WriteString("\n")
		for _, o := range m.Options {
			fmt.Fprintf(&b, "  %s. %s\n", o.Label, o.Text)
		}
	}
	b.WriteString("\n")
	if m.WrongAnswer != "" {
		fmt.Fprintf(&b, "Wrong answer:   %s\n", m.WrongAnswer)
	}
	fmt.Fprintf(&b, "Correct answer: %s\n", m.CorrectAnswer)
	if m.Explanation != "" {
		fmt.Fprintf(&b, "Explanation:    %s\n", m.Explanation)
	}
	if len(m.Tags) > 0 {
		fmt.Fprintf(&b, "Tags:           %s\n", strings.Join(m.Tags, ", "))
	}
	fmt.Fprintf(&b, "Added:          %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Progress:       %s\n", ProgressLabel(m))
	fmt.Fprintf(&b, "Accuracy:       %d%%\n", AccuracyPercent(m))
	fmt.Fprintf(&b, "Last review:    %s\n", LastReviewLabel(m, now))
	if strip := HistoryStrip(reviews, 0); strip != "" {
		fmt.Fprintf(&b, "History:        %s\n", strip)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHistory prints reviews as a table, most recent first.
func RenderHistory(w io.Writer, reviews []model.Review) error {
	if len(reviews) == 0 {
		_, err := fmt.Fprintln(w, "No reviews yet.")
		return err
	}
	headers := []string{"When", "Result", "Answer"}
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		mark := markIncorrect
		if r.Result {
			mark = markCorrect
		}
		rows = append(rows, []string{
			r.ReviewedAt.Local().Format("2006-01-02 15:04"),
			mark,
			singleLine(r.UserAnswer),
		})
	}
	return writeLines(w, formatTable(headers, rows, nil))
}

func ratio(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func percent(correct, total int) int {
	return int(math.Round(ratio(correct, total) * 100))
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
