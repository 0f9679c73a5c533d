package stats

import (
	"sort"

	"github.com/verte-zerg/mistakebook/internal/model"
)

// TagCount is a tag with the number of mistakes carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// TopTags returns the top N tags by number of mistakes.
func TopTags(mistakes []model.Mistake, n int) []TagCount {
	if n <= 0 || len(mistakes) == 0 {
		return nil
	}
	counts := map[string]int{}
	for _, m := range mistakes {
		for _, tag := range m.Tags {
			counts[tag]++
		}
	}
	items := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		items = append(items, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Tag < items[j].Tag
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
