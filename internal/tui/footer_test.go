package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/mistakebook/internal/model"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		queue:    make([]model.Mistake, 4),
		index:    1,
		current:  model.Mistake{ReviewCount: 5, CorrectCount: 3},
		answered: 3,
		correct:  2,
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Question 2/4", "Session 2/3", "67%", "Progress 3/5"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterBeforeFirstAnswer(t *testing.T) {
	m := &Model{queue: make([]model.Mistake, 2)}
	out := m.renderFooter()
	if strings.Contains(out, "Session") {
		t.Fatalf("session segment must wait for an answer: %s", out)
	}
	if !containsAll(out, []string{"Question 1/2", "Progress not reviewed"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	if (&Model{}).renderFooter() != "" {
		t.Fatalf("empty queue must have no footer")
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
