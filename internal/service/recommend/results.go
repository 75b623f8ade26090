// internal/service/recommend/results.go

package recommend

import (
	"sort"
	"strings"

	"moim/internal/domain/place"
)

// FilterByCategory keeps results whose provider category path contains
// term. An empty term keeps everything.
func FilterByCategory(results []place.Result, term string) []place.Result {
	if term == "" {
		return results
	}

	filtered := make([]place.Result, 0, len(results))
	for _, r := range results {
		if strings.Contains(r.CategoryName, term) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SortByDistance returns a copy ordered by anchor distance ascending.
// Results without a reported distance (unanchored searches) sort last,
// keeping their relative order.
func SortByDistance(results []place.Result) []place.Result {
	sorted := make([]place.Result, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].DistanceMeters, sorted[j].DistanceMeters
		if di == 0 {
			return false
		}
		if dj == 0 {
			return true
		}
		return di < dj
	})
	return sorted
}
