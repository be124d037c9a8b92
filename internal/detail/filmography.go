package detail

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"myfilms/internal/catalog"
)

// MergeFilmography combines cast then crew credits and keeps only the first
// occurrence of each item ID, then drops entries without a poster. A
// poster-less first occurrence still shadows later ones. The result is stably
// sorted by descending popularity, missing popularity counting as 0.
func MergeFilmography(cast, crew []catalog.Item) []catalog.Item {
	seen := make(map[int64]struct{}, len(cast)+len(crew))
	out := make([]catalog.Item, 0, len(cast)+len(crew))
	for _, group := range [][]catalog.Item{cast, crew} {
		for _, item := range group {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			if item.PosterPath == "" {
				continue
			}
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PopularityScore() > out[j].PopularityScore()
	})
	return out
}

// FilterByTitle keeps items whose title (or name) contains text, ignoring
// case. An empty filter returns items unchanged.
func FilterByTitle(items []catalog.Item, text string) []catalog.Item {
	needle := strings.TrimSpace(text)
	if needle == "" {
		return items
	}
	fold := cases.Fold()
	needle = fold.String(needle)
	out := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = item.Name
		}
		if strings.Contains(fold.String(title), needle) {
			out = append(out, item)
		}
	}
	return out
}
