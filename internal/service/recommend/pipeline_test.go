// internal/service/recommend/pipeline_test.go

package recommend

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
	"moim/internal/service/locate"
	"moim/internal/service/preference"
)

type fakeGeocoder struct {
	resolveAddress   func(query string) (*meeting.CenterLocation, error)
	districtForCoord func(lat, lng float64) (string, error)
	searchKeyword    func(query string, opts place.SearchOptions) ([]place.Result, error)
}

func (f *fakeGeocoder) ResolveAddress(_ context.Context, query string) (*meeting.CenterLocation, error) {
	return f.resolveAddress(query)
}

func (f *fakeGeocoder) DistrictForCoord(_ context.Context, lat, lng float64) (string, error) {
	return f.districtForCoord(lat, lng)
}

func (f *fakeGeocoder) SearchKeyword(_ context.Context, query string, opts place.SearchOptions) ([]place.Result, error) {
	return f.searchKeyword(query, opts)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (f *fakePublisher) Publish(_ string, data []byte) error {
	var event ProgressEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
	return nil
}

func TestPipelineRun(t *testing.T) {
	lat, lng := 37.5, 127.0
	geocoder := &fakeGeocoder{
		districtForCoord: func(float64, float64) (string, error) { return "강남구", nil },
	}
	provider := &fakeProvider{
		respond: func(query string, _ place.SearchOptions) ([]place.Result, error) {
			return []place.Result{
				{ID: "p-" + query, Name: query, CategoryName: "음식점 > 한식", Address: "서울 강남구"},
			}, nil
		},
	}
	gen := &fakeGenerator{response: `{
  "recommendations": [{"place_id": "p-강남구 한식 맛집", "rank": 1, "reason": "좋음"}],
  "summary": "요약"
}`}
	publisher := &fakePublisher{}

	p := NewPipeline(
		locate.NewResolver(geocoder, quietLogger()),
		NewSearcher(provider, quietLogger()),
		NewRecommender(gen, quietLogger()),
		publisher,
		quietLogger(),
	)

	m := &meeting.Context{
		ID:             uuid.New(),
		Purpose:        meeting.PurposeDining,
		LocationChoice: meeting.ChoiceCenterLocation,
		ParticipantLocations: []meeting.ParticipantLocation{
			{ParticipantID: uuid.New(), Latitude: &lat, Longitude: &lng},
		},
		Preferences: preference.Aggregate([]meeting.Preference{
			{FoodTypes: []meeting.FoodTag{meeting.FoodKorean}},
		}),
		ExpectedParticipants: 3,
	}

	result, err := p.Run(context.Background(), m, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Anchor == nil || result.Anchor.District != "강남구" {
		t.Errorf("anchor = %+v, want 강남구", result.Anchor)
	}
	if len(result.Keywords) == 0 || result.Keywords[0].Text != "강남구 한식 맛집" {
		t.Errorf("keywords = %+v", result.Keywords)
	}
	if len(result.Places) == 0 {
		t.Fatalf("no places found")
	}
	recs := result.Recommendations.Recommendations
	if len(recs) != 1 || recs[0].Rank != 1 {
		t.Fatalf("recommendations = %+v", recs)
	}
	if recs[0].Address == "" {
		t.Errorf("recommendation missing candidate display fields: %+v", recs[0])
	}

	wantStages := []string{
		StageResolvingLocation,
		StageKeywordsGenerated,
		StageSearchCompleted,
		StageRankingCompleted,
	}
	if len(publisher.events) != len(wantStages) {
		t.Fatalf("%d progress events, want %d: %+v", len(publisher.events), len(wantStages), publisher.events)
	}
	for i, want := range wantStages {
		if publisher.events[i].Stage != want {
			t.Errorf("event[%d].Stage = %s, want %s", i, publisher.events[i].Stage, want)
		}
		if publisher.events[i].MeetingID != m.ID {
			t.Errorf("event[%d] carries wrong meeting id", i)
		}
	}
}

func TestPipelineRunWithoutPublisher(t *testing.T) {
	geocoder := &fakeGeocoder{
		districtForCoord: func(float64, float64) (string, error) { return "", nil },
	}
	provider := &fakeProvider{
		respond: func(string, place.SearchOptions) ([]place.Result, error) { return nil, nil },
	}
	gen := &fakeGenerator{response: "not json"}

	p := NewPipeline(
		locate.NewResolver(geocoder, quietLogger()),
		NewSearcher(provider, quietLogger()),
		NewRecommender(gen, quietLogger()),
		nil,
		quietLogger(),
	)

	m := &meeting.Context{
		ID:             uuid.New(),
		LocationChoice: meeting.ChoiceCenterLocation,
	}

	result, err := p.Run(context.Background(), m, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Recommendations.Recommendations) != 0 {
		t.Errorf("recommendations from zero candidates: %+v", result.Recommendations)
	}
}

func TestPipelineRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	geocoder := &fakeGeocoder{
		districtForCoord: func(float64, float64) (string, error) { return "", nil },
	}
	provider := &fakeProvider{
		respond: func(string, place.SearchOptions) ([]place.Result, error) { return nil, nil },
	}
	gen := &fakeGenerator{response: "unused"}

	p := NewPipeline(
		locate.NewResolver(geocoder, quietLogger()),
		NewSearcher(provider, quietLogger()),
		NewRecommender(gen, quietLogger()),
		nil,
		quietLogger(),
	)

	if _, err := p.Run(ctx, &meeting.Context{ID: uuid.New()}, 3); err == nil {
		t.Fatal("Run with canceled context returned nil error")
	}
}
