package lists

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"myfilms/internal/catalog"
	"myfilms/internal/services"
)

var (
	ErrEmptyName    = fmt.Errorf("%w: list name must not be empty", services.ErrValidation)
	ErrListNotFound = fmt.Errorf("%w: list", services.ErrNotFound)
)

// List is a named, ordered collection of catalog items. Item IDs are unique
// within a list.
type List struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Items     []catalog.Item `json:"items"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Contains reports whether an item with id is already in the list.
func (l List) Contains(id int64) bool {
	for _, item := range l.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Cover returns the artwork path shown for the list: the most recently added
// item's poster, else its backdrop.
func (l List) Cover() string {
	if len(l.Items) == 0 {
		return ""
	}
	last := l.Items[len(l.Items)-1]
	if last.PosterPath != "" {
		return last.PosterPath
	}
	return last.BackdropPath
}

func (l List) clone() List {
	out := l
	out.Items = append(make([]catalog.Item, 0, len(l.Items)), l.Items...)
	return out
}

// SortOrder selects how SortedView presents items.
type SortOrder string

const (
	SortDefault    SortOrder = "default"
	SortRatingDesc SortOrder = "rating-desc"
	SortRatingAsc  SortOrder = "rating-asc"
)

// ParseSortOrder accepts the canonical names plus "desc"/"asc" shorthands.
func ParseSortOrder(value string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "default", "added":
		return SortDefault, nil
	case "rating-desc", "desc":
		return SortRatingDesc, nil
	case "rating-asc", "asc":
		return SortRatingAsc, nil
	default:
		return SortDefault, fmt.Errorf("%w: unknown sort order %q", services.ErrValidation, value)
	}
}

// SortedView returns a new slice ordered by order. Missing ratings count as 0
// and ties keep insertion order. The input is never modified.
func SortedView(items []catalog.Item, order SortOrder) []catalog.Item {
	out := append(make([]catalog.Item, 0, len(items)), items...)
	switch order {
	case SortRatingDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating() > out[j].Rating() })
	case SortRatingAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating() < out[j].Rating() })
	}
	return out
}
