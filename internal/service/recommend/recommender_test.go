// internal/service/recommend/recommender_test.go

package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenerator) ModelName() string { return "test-model" }

func testMeeting() *meeting.Context {
	return &meeting.Context{
		Purpose:              meeting.PurposeDining,
		LocationChoice:       meeting.ChoiceCenterLocation,
		ExpectedParticipants: 4,
	}
}

func testCandidates(n int) []place.Candidate {
	candidates := make([]place.Candidate, 0, n)
	for i := 0; i < n; i++ {
		candidates = append(candidates, place.NewCandidate(place.Result{
			ID:           string(rune('1' + i)),
			Name:         "후보" + string(rune('A'+i)),
			CategoryName: "음식점 > 한식",
			Address:      "서울 강남구 역삼동",
			Latitude:     37.5,
			Longitude:    127.0,
			Phone:        "02-000-0000",
			URL:          "http://place.example/" + string(rune('1'+i)),
		}))
	}
	return candidates
}

func TestRecommendFallbackOnNonJSON(t *testing.T) {
	for _, n := range []int{5, 2, 1} {
		gen := &fakeGenerator{response: "not json"}
		r := NewRecommender(gen, quietLogger())

		result := r.Recommend(context.Background(), testMeeting(), testCandidates(n), 3)

		want := n
		if want > 3 {
			want = 3
		}
		if len(result.Recommendations) != want {
			t.Fatalf("n=%d: %d recommendations, want %d", n, len(result.Recommendations), want)
		}
		for i, rec := range result.Recommendations {
			if rec.Rank != i+1 {
				t.Errorf("n=%d: rank[%d] = %d, want %d", n, i, rec.Rank, i+1)
			}
			if len(rec.Considerations) == 0 || !strings.Contains(rec.Considerations[0], "해석하지 못해") {
				t.Errorf("n=%d: considerations %v do not mention the parse failure", n, rec.Considerations)
			}
			if len(rec.MatchedPreferences) != 0 {
				t.Errorf("n=%d: fallback carries matched preferences %v", n, rec.MatchedPreferences)
			}
			if rec.Address == "" {
				t.Errorf("n=%d: fallback recommendation missing display fields", n)
			}
		}
		if result.TotalCandidates != n {
			t.Errorf("TotalCandidates = %d, want %d", result.TotalCandidates, n)
		}
		if result.ModelUsed != "test-model" {
			t.Errorf("ModelUsed = %q", result.ModelUsed)
		}
	}
}

func TestRecommendFallbackOnModelError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	r := NewRecommender(gen, quietLogger())

	result := r.Recommend(context.Background(), testMeeting(), testCandidates(4), 3)

	if len(result.Recommendations) != 3 {
		t.Fatalf("%d recommendations, want 3", len(result.Recommendations))
	}
}

func TestRecommendParsesFencedResponse(t *testing.T) {
	gen := &fakeGenerator{response: "```json\n" + `{
  "recommendations": [
    {"place_id": "2", "place_name": "후보B", "rank": 1, "reason": "선호에 맞음", "match_score": 92, "matched_preferences": ["korean"], "considerations": ["주말 예약 필요"]},
    {"place_id": "1", "place_name": "후보A", "rank": 2, "reason": "접근성이 좋음", "match_score": 80}
  ],
  "summary": "한식 위주 추천"
}` + "\n```"}
	r := NewRecommender(gen, quietLogger())

	result := r.Recommend(context.Background(), testMeeting(), testCandidates(3), 3)

	if len(result.Recommendations) != 2 {
		t.Fatalf("%d recommendations, want 2", len(result.Recommendations))
	}
	first := result.Recommendations[0]
	if first.PlaceID != "2" || first.Rank != 1 {
		t.Errorf("first = %+v, want place 2 at rank 1", first)
	}
	if first.Address == "" || first.Latitude == 0 || first.URL == "" {
		t.Errorf("display fields not copied from candidate: %+v", first)
	}
	if first.Reason != "선호에 맞음" || first.MatchScore != 92 {
		t.Errorf("model fields mangled: %+v", first)
	}
	if result.Summary != "한식 위주 추천" {
		t.Errorf("summary = %q", result.Summary)
	}
}

func TestRecommendNormalizesRankGaps(t *testing.T) {
	gen := &fakeGenerator{response: `{
  "recommendations": [
    {"place_id": "3", "rank": 7, "reason": "c"},
    {"place_id": "1", "rank": 2, "reason": "a"},
    {"place_id": "2", "rank": 5, "reason": "b"}
  ],
  "summary": "s"
}`}
	r := NewRecommender(gen, quietLogger())

	result := r.Recommend(context.Background(), testMeeting(), testCandidates(3), 3)

	wantOrder := []string{"1", "2", "3"}
	for i, rec := range result.Recommendations {
		if rec.Rank != i+1 {
			t.Errorf("rank[%d] = %d, want %d", i, rec.Rank, i+1)
		}
		if rec.PlaceID != wantOrder[i] {
			t.Errorf("order[%d] = %s, want %s", i, rec.PlaceID, wantOrder[i])
		}
	}
}

func TestRecommendAssignsRanksWhenOmitted(t *testing.T) {
	gen := &fakeGenerator{response: `{
  "recommendations": [
    {"place_id": "2", "reason": "first in response"},
    {"place_id": "1", "reason": "second in response"}
  ],
  "summary": "s"
}`}
	r := NewRecommender(gen, quietLogger())

	result := r.Recommend(context.Background(), testMeeting(), testCandidates(2), 3)

	if result.Recommendations[0].PlaceID != "2" || result.Recommendations[0].Rank != 1 {
		t.Errorf("first = %+v, want place 2 at rank 1 (response order)", result.Recommendations[0])
	}
	if result.Recommendations[1].Rank != 2 {
		t.Errorf("second rank = %d, want 2", result.Recommendations[1].Rank)
	}
}

func TestRecommendTruncatesToTopN(t *testing.T) {
	gen := &fakeGenerator{response: `{
  "recommendations": [
    {"place_id": "1", "rank": 1, "reason": "a"},
    {"place_id": "2", "rank": 2, "reason": "b"},
    {"place_id": "3", "rank": 3, "reason": "c"}
  ],
  "summary": "s"
}`}
	r := NewRecommender(gen, quietLogger())

	result := r.Recommend(context.Background(), testMeeting(), testCandidates(3), 2)

	if len(result.Recommendations) != 2 {
		t.Fatalf("%d recommendations, want 2", len(result.Recommendations))
	}
}

func TestRecommendResolvesByNameWhenIDUnknown(t *testing.T) {
	gen := &fakeGenerator{response: `{
  "recommendations": [{"place_id": "unknown-id", "place_name": "후보A", "rank": 1, "reason": "r"}],
  "summary": "s"
}`}
	r := NewRecommender(gen, quietLogger())

	result := r.Recommend(context.Background(), testMeeting(), testCandidates(2), 3)

	rec := result.Recommendations[0]
	if rec.PlaceID != "1" || rec.Address == "" {
		t.Errorf("name match did not copy candidate fields: %+v", rec)
	}
}

func TestRecommendKeepsBareFieldsWhenUnmatched(t *testing.T) {
	gen := &fakeGenerator{response: `{
  "recommendations": [{"place_id": "nope", "place_name": "없는집", "rank": 1, "reason": "r"}],
  "summary": "s"
}`}
	r := NewRecommender(gen, quietLogger())

	result := r.Recommend(context.Background(), testMeeting(), testCandidates(2), 3)

	rec := result.Recommendations[0]
	if rec.PlaceID != "nope" || rec.PlaceName != "없는집" {
		t.Errorf("bare model fields lost: %+v", rec)
	}
	if rec.Address != "" || rec.Latitude != 0 {
		t.Errorf("unmatched recommendation gained display fields: %+v", rec)
	}
}

func TestRecommendEmptyCandidates(t *testing.T) {
	gen := &fakeGenerator{response: "unused"}
	r := NewRecommender(gen, quietLogger())

	result := r.Recommend(context.Background(), testMeeting(), nil, 3)

	if len(result.Recommendations) != 0 {
		t.Errorf("%d recommendations from zero candidates", len(result.Recommendations))
	}
	if len(gen.prompts) != 0 {
		t.Errorf("model invoked with no candidates")
	}
	if result.Summary == "" || result.ModelUsed != "test-model" {
		t.Errorf("empty result not labeled: %+v", result)
	}
}

func TestRecommendFallbackOnEmptyRecommendationList(t *testing.T) {
	gen := &fakeGenerator{response: `{"recommendations": [], "summary": "s"}`}
	r := NewRecommender(gen, quietLogger())

	result := r.Recommend(context.Background(), testMeeting(), testCandidates(2), 3)

	if len(result.Recommendations) != 2 {
		t.Fatalf("%d recommendations, want fallback of 2", len(result.Recommendations))
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildPromptIncludesContext(t *testing.T) {
	m := testMeeting()
	m.LocationChoice = meeting.ChoicePreferenceArea
	m.PreferredDistrict = "마포구"
	m.DistrictVotes = map[string]int{"마포구": 3, "강남구": 1}
	m.Preferences = meeting.AggregatedPreferences{
		FoodWeights: map[meeting.FoodTag]int{meeting.FoodKorean: 2, meeting.FoodMeat: 1},
	}

	prompt := buildPrompt(m, testCandidates(2), 3)

	for _, want := range []string{"마포구: 3표", "korean(2명)", "후보A", "recommendations"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptCapsCandidates(t *testing.T) {
	candidates := make([]place.Candidate, 0, 30)
	for i := 0; i < 30; i++ {
		candidates = append(candidates, place.NewCandidate(place.Result{
			ID:   "x",
			Name: "넘치는집",
		}))
	}

	prompt := buildPrompt(testMeeting(), candidates, 3)

	if n := strings.Count(prompt, "넘치는집"); n != maxPromptCandidates {
		t.Errorf("prompt renders %d candidates, want %d", n, maxPromptCandidates)
	}
}
