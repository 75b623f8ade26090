// internal/service/recommend/recommender.go

package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
)

// DefaultTopN is how many recommendations a ranking run produces unless
// the caller overrides it.
const DefaultTopN = 3

// fallbackNote is appended to each fallback recommendation's
// considerations so a degraded ranking is visible to the end user.
const fallbackNote = "AI 응답을 해석하지 못해 검색 순위 기준으로 추천합니다."

// Generator is the slice of the ranking model the recommender needs.
// *gemini.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// Recommender ranks enriched candidates with the generation model,
// degrading to a deterministic search-order fallback when the model is
// unreachable or returns something unparseable. Recommend never fails:
// the caller always receives a complete result, possibly one flagged as
// degraded in its considerations.
type Recommender struct {
	generator Generator
	logger    *slog.Logger
}

// NewRecommender builds a Recommender. A nil logger falls back to
// slog.Default().
func NewRecommender(generator Generator, logger *slog.Logger) *Recommender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recommender{generator: generator, logger: logger}
}

// modelResponse mirrors the JSON shape requested from the model.
type modelResponse struct {
	Recommendations []modelRecommendation `json:"recommendations"`
	Summary         string                `json:"summary"`
}

type modelRecommendation struct {
	PlaceID            string   `json:"place_id"`
	PlaceName          string   `json:"place_name"`
	Rank               int      `json:"rank"`
	Reason             string   `json:"reason"`
	MatchScore         float64  `json:"match_score"`
	MatchedPreferences []string `json:"matched_preferences"`
	Considerations     []string `json:"considerations"`
}

// Recommend ranks candidates for the meeting and returns at most topN
// recommendations with contiguous ranks starting at 1.
func (r *Recommender) Recommend(ctx context.Context, m *meeting.Context, candidates []place.Candidate, topN int) place.RecommendationResult {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if len(candidates) == 0 {
		return place.RecommendationResult{
			Summary:   "조건에 맞는 장소를 찾지 못했습니다.",
			ModelUsed: r.generator.ModelName(),
		}
	}

	prompt := buildPrompt(m, candidates, topN)

	raw, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("ranking model call failed", "error", err)
		return r.fallback(candidates, topN)
	}

	parsed, err := parseModelResponse(raw)
	if err != nil {
		r.logger.Warn("ranking response unparseable", "error", err)
		return r.fallback(candidates, topN)
	}

	recs := make([]place.Recommendation, 0, len(parsed.Recommendations))
	for _, mr := range parsed.Recommendations {
		rec := place.Recommendation{
			PlaceID:            mr.PlaceID,
			PlaceName:          mr.PlaceName,
			Rank:               mr.Rank,
			Reason:             mr.Reason,
			MatchScore:         mr.MatchScore,
			MatchedPreferences: mr.MatchedPreferences,
			Considerations:     mr.Considerations,
		}
		if c := resolveCandidate(candidates, mr.PlaceID, mr.PlaceName); c != nil {
			copyDisplayFields(&rec, c)
		}
		recs = append(recs, rec)
	}

	recs = normalizeRanks(recs)
	if len(recs) > topN {
		recs = recs[:topN]
	}

	return place.RecommendationResult{
		Recommendations: recs,
		Summary:         parsed.Summary,
		TotalCandidates: len(candidates),
		ModelUsed:       r.generator.ModelName(),
	}
}

// fallback builds the deterministic degraded result: the first
// min(topN, len) candidates in search order, ranked sequentially, each
// flagged with the parse-failure note.
func (r *Recommender) fallback(candidates []place.Candidate, topN int) place.RecommendationResult {
	n := len(candidates)
	if n > topN {
		n = topN
	}

	recs := make([]place.Recommendation, 0, n)
	for i := 0; i < n; i++ {
		c := candidates[i]
		rec := place.Recommendation{
			PlaceID:        c.ID,
			PlaceName:      c.Name,
			Rank:           i + 1,
			Reason:         fallbackReason(c),
			Considerations: []string{fallbackNote},
		}
		copyDisplayFields(&rec, &c)
		recs = append(recs, rec)
	}

	return place.RecommendationResult{
		Recommendations: recs,
		Summary:         "검색 결과 상위 장소를 추천합니다.",
		TotalCandidates: len(candidates),
		ModelUsed:       r.generator.ModelName(),
	}
}

func fallbackReason(c place.Candidate) string {
	if leaf := categoryLeaf(c.CategoryName); leaf != "" {
		return fmt.Sprintf("검색 결과 상위의 %s 장소입니다.", leaf)
	}
	return "검색 결과 상위 장소입니다."
}

// parseModelResponse strips optional code fences and decodes the strict
// JSON object. An empty recommendation list counts as malformed.
func parseModelResponse(raw string) (*modelResponse, error) {
	text := stripCodeFence(raw)

	var parsed modelResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("decoding ranking response: %w", err)
	}
	if len(parsed.Recommendations) == 0 {
		return nil, fmt.Errorf("ranking response has no recommendations")
	}
	for _, mr := range parsed.Recommendations {
		if mr.PlaceID == "" && mr.PlaceName == "" {
			return nil, fmt.Errorf("ranking response entry has neither place id nor name")
		}
	}
	return &parsed, nil
}

// stripCodeFence removes a surrounding ```json ... ``` (or bare ```)
// fence, which the model emits despite being asked for raw JSON.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// resolveCandidate matches a model entry back to a candidate, by id
// first, then by exact name.
func resolveCandidate(candidates []place.Candidate, id, name string) *place.Candidate {
	if id != "" {
		for i := range candidates {
			if candidates[i].ID == id {
				return &candidates[i]
			}
		}
	}
	if name != "" {
		for i := range candidates {
			if candidates[i].Name == name {
				return &candidates[i]
			}
		}
	}
	return nil
}

func copyDisplayFields(rec *place.Recommendation, c *place.Candidate) {
	rec.PlaceID = c.ID
	rec.PlaceName = c.Name
	rec.Address = c.Address
	rec.RoadAddress = c.RoadAddress
	rec.Latitude = c.Latitude
	rec.Longitude = c.Longitude
	rec.Phone = c.Phone
	rec.URL = c.URL
	rec.CategoryName = c.CategoryName
	rec.DistanceMeters = c.DistanceMeters
}

// normalizeRanks orders entries by the model's ranks when present and
// reassigns a contiguous 1..n sequence. Entries without a rank keep
// response order.
func normalizeRanks(recs []place.Recommendation) []place.Recommendation {
	ranked := true
	for _, rec := range recs {
		if rec.Rank <= 0 {
			ranked = false
			break
		}
	}
	if ranked {
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Rank < recs[j].Rank
		})
	}
	for i := range recs {
		recs[i].Rank = i + 1
	}
	return recs
}
