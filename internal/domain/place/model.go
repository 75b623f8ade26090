// internal/domain/place/model.go

package place

import (
	"strings"

	"moim/internal/domain/meeting"
)

// SearchOptions narrows a provider keyword search. A nil or sentinel
// anchor means an unanchored, nationwide query.
type SearchOptions struct {
	// Anchor centers the search; ignored when nil or sentinel (0,0).
	Anchor *meeting.CenterLocation

	// RadiusMeters bounds an anchored search.
	RadiusMeters int

	// Size is the per-request page size.
	Size int
}

// Keyword is one generated search string. Lower priority numbers are
// searched first; 1 is the highest priority.
type Keyword struct {
	Text     string `json:"keyword"`
	Priority int    `json:"priority"`
	Category string `json:"category,omitempty"`
}

// Result is a single place returned by the search provider. ID is the
// provider's opaque place identifier and the dedup key across searches.
type Result struct {
	ID           string  `json:"id"`
	Name         string  `json:"place_name"`
	CategoryName string  `json:"category_name"`
	Address      string  `json:"address_name"`
	RoadAddress  string  `json:"road_address_name,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	URL          string  `json:"place_url"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`

	// DistanceMeters is the distance from the search anchor; 0 means the
	// provider did not report one (unanchored search).
	DistanceMeters int `json:"distance_meters,omitempty"`
}

// Candidate is a search result enriched with best-effort secondary-lookup
// hints. Enrichment failure leaves Hints empty; the candidate is still
// eligible for ranking.
type Candidate struct {
	Result

	Hints []string `json:"hints,omitempty"`
}

// NewCandidate wraps a bare search result without enrichment.
func NewCandidate(r Result) Candidate {
	return Candidate{Result: r}
}

// District extracts the gu/gun administrative district from the result's
// address, or "" when the address carries none.
func (r Result) District() string {
	for _, field := range strings.Fields(r.Address) {
		if strings.HasSuffix(field, "구") || strings.HasSuffix(field, "군") {
			return field
		}
	}
	return ""
}

// Recommendation is one ranked venue with the ranking model's explanation
// and map-display fields copied from the matching candidate.
type Recommendation struct {
	PlaceID   string  `json:"place_id"`
	PlaceName string  `json:"place_name"`
	Rank      int     `json:"rank"`
	Reason    string  `json:"reason"`
	MatchScore float64 `json:"match_score,omitempty"`

	MatchedPreferences []string `json:"matched_preferences,omitempty"`
	Considerations     []string `json:"considerations,omitempty"`

	Address        string  `json:"address,omitempty"`
	RoadAddress    string  `json:"road_address,omitempty"`
	Latitude       float64 `json:"latitude,omitempty"`
	Longitude      float64 `json:"longitude,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	URL            string  `json:"place_url,omitempty"`
	CategoryName   string  `json:"category,omitempty"`
	DistanceMeters int     `json:"distance_meters,omitempty"`
}

// RecommendationResult is the pipeline's final output. Recommendations are
// ordered by rank, which is always a contiguous sequence starting at 1.
type RecommendationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Summary         string           `json:"summary"`
	TotalCandidates int              `json:"total_candidates"`
	ModelUsed       string           `json:"model_used"`
}
