// Package grading decides whether a submitted answer is correct.
package grading

import (
	"sort"
	"strings"
	"unicode"

	"github.com/verte-zerg/mistakebook/internal/model"
)

// Grade compares submitted against correct using the rules of qt.
//
// TrueFalse ignores case and all whitespace. MultipleChoice compares the
// canonical label sets of both sides, so "B,A" matches "A,B". Every other
// type requires exact literal equality. An empty submission is never correct.
func Grade(qt model.QuestionType, correct, submitted string) bool {
	if strings.TrimSpace(submitted) == "" {
		return false
	}
	switch qt {
	case model.TrueFalse:
		return normalizeTrueFalse(submitted) == normalizeTrueFalse(correct)
	case model.MultipleChoice:
		want := CanonicalLabels(correct)
		return want != "" && CanonicalLabels(submitted) == want
	default:
		return submitted == correct
	}
}

// CanonicalLabels returns the sorted, deduplicated, comma-joined form of a
// comma separated label list.
func CanonicalLabels(s string) string {
	return strings.Join(SplitLabels(s), ",")
}

// SplitLabels splits a comma separated label list into its canonical labels.
func SplitLabels(s string) []string {
	parts := strings.Split(s, ",")
	seen := make(map[string]struct{}, len(parts))
	labels := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		labels = append(labels, p)
	}
	sort.Strings(labels)
	return labels
}

func normalizeTrueFalse(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
