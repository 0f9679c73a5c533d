package stats

import (
	"testing"

	"github.com/verte-zerg/mistakebook/internal/model"
)

func TestTopTags(t *testing.T) {
	mistakes := []model.Mistake{
		{ID: 1, Tags: []string{"algebra", "quadratics"}},
		{ID: 2, Tags: []string{"algebra"}},
		{ID: 3, Tags: []string{"geometry", "quadratics"}},
		{ID: 4},
	}
	top := TopTags(mistakes, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(top))
	}
	if top[0] != (TagCount{Tag: "algebra", Count: 2}) || top[1] != (TagCount{Tag: "quadratics", Count: 2}) {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopTags(mistakes, 10); len(got) != 3 {
		t.Fatalf("expected all 3 tags, got %v", got)
	}
	if got := TopTags(mistakes, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
