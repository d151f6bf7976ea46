package favourites

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/photodeck/internal/domain"
)

// Filter returns the photos whose title fuzzily matches query, closest match
// first. An empty query returns photos unchanged.
func Filter(photos []domain.Photo, query string) []domain.Photo {
	query = strings.TrimSpace(query)
	if query == "" {
		return photos
	}

	titles := make([]string, len(photos))
	for i, p := range photos {
		titles[i] = p.Title
	}

	matches := fuzzy.RankFindFold(query, titles)

	// Sort by distance (lower is better), ties keep collection order
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].OriginalIndex < matches[j].OriginalIndex
	})

	out := make([]domain.Photo, 0, len(matches))
	for _, m := range matches {
		out = append(out, photos[m.OriginalIndex])
	}
	return out
}
