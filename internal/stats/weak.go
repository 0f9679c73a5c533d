package stats

import (
	"sort"

	"github.com/verte-zerg/mistakebook/internal/model"
)

// WeakestMistakes selects the reviewed mistakes with the lowest accuracy.
// More reviews rank a mistake weaker at equal accuracy. A non-positive top
// returns every reviewed mistake.
func WeakestMistakes(mistakes []model.Mistake, top int) []model.Mistake {
	candidates := make([]model.Mistake, 0, len(mistakes))
	for _, m := range mistakes {
		if m.ReviewCount > 0 {
			candidates = append(candidates, m)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ai := Accuracy(candidates[i])
		aj := Accuracy(candidates[j])
		if ai != aj {
			return ai < aj
		}
		if candidates[i].ReviewCount != candidates[j].ReviewCount {
			return candidates[i].ReviewCount > candidates[j].ReviewCount
		}
		return candidates[i].ID < candidates[j].ID
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}
