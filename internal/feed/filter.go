package feed

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"dishfeed/internal/geo"
)

// Filter derives the feed view for q from posts. It does not modify posts.
func Filter(posts []Post, q Query) []Entry {
	category := q.Category
	if category == AllCategories {
		category = ""
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]Entry, 0, len(posts))
	for _, p := range posts {
		if category != "" && p.Category != category {
			continue
		}
		if text != "" && !matchesText(p, text) {
			continue
		}
		if q.Owner == OwnerMine && p.OwnerID != "" && p.OwnerID != q.ActorID {
			continue
		}

		e := Entry{Post: p}
		if q.Origin != nil && p.Location != nil {
			d := geo.DistanceKm(*q.Origin, *p.Location)
			e.DistanceKm = &d
		}
		out = append(out, e)
	}

	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(sortKey(a), sortKey(b))
	})

	return out
}

func matchesText(p Post, q string) bool {
	for _, field := range []string{p.Name, p.Description, p.PlaceName, p.Address, p.Category} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// sortKey places entries without a distance after every entry that has one
func sortKey(e Entry) float64 {
	if e.DistanceKm == nil {
		return math.Inf(1)
	}
	return *e.DistanceKm
}
