// internal/service/locate/resolver_test.go

package locate

import (
	"context"
	"errors"
	"math"
	"testing"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
)

// fakeGeocoder scripts geocoder behavior per test.
type fakeGeocoder struct {
	resolveAddress   func(query string) (*meeting.CenterLocation, error)
	districtForCoord func(lat, lng float64) (string, error)
	searchKeyword    func(query string) ([]place.Result, error)
}

func (f *fakeGeocoder) ResolveAddress(_ context.Context, query string) (*meeting.CenterLocation, error) {
	if f.resolveAddress == nil {
		return nil, nil
	}
	return f.resolveAddress(query)
}

func (f *fakeGeocoder) DistrictForCoord(_ context.Context, lat, lng float64) (string, error) {
	if f.districtForCoord == nil {
		return "", nil
	}
	return f.districtForCoord(lat, lng)
}

func (f *fakeGeocoder) SearchKeyword(_ context.Context, query string, _ place.SearchOptions) ([]place.Result, error) {
	if f.searchKeyword == nil {
		return nil, nil
	}
	return f.searchKeyword(query)
}

func ptr(v float64) *float64 { return &v }

func TestResolveCenterAveragesCoordinates(t *testing.T) {
	geocoder := &fakeGeocoder{
		districtForCoord: func(lat, lng float64) (string, error) {
			return "서초구", nil
		},
	}
	r := NewResolver(geocoder, nil)

	m := &meeting.Context{
		LocationChoice: meeting.ChoiceCenterLocation,
		ParticipantLocations: []meeting.ParticipantLocation{
			{Latitude: ptr(37.50), Longitude: ptr(127.02)},
			{Latitude: ptr(37.49), Longitude: ptr(127.03)},
			{Latitude: ptr(37.48), Longitude: ptr(127.01)},
		},
	}

	center := r.Resolve(context.Background(), m)
	if center == nil {
		t.Fatal("expected a center, got nil")
	}

	if math.Abs(center.Latitude-37.49) > 1e-9 {
		t.Errorf("latitude = %f, want 37.49", center.Latitude)
	}
	if math.Abs(center.Longitude-127.02) > 1e-9 {
		t.Errorf("longitude = %f, want 127.02", center.Longitude)
	}
	if center.District != "서초구" {
		t.Errorf("district = %q, want 서초구", center.District)
	}
}

func TestResolveCenterGeocodesAddresses(t *testing.T) {
	geocoder := &fakeGeocoder{
		resolveAddress: func(query string) (*meeting.CenterLocation, error) {
			if query == "서울 강남구 역삼동" {
				return &meeting.CenterLocation{Latitude: 37.50, Longitude: 127.03}, nil
			}
			return nil, nil
		},
	}
	r := NewResolver(geocoder, nil)

	m := &meeting.Context{
		LocationChoice: meeting.ChoiceCenterLocation,
		ParticipantLocations: []meeting.ParticipantLocation{
			{Latitude: ptr(37.48), Longitude: ptr(127.01)},
			{Address: "서울 강남구 역삼동"},
			{Address: "주소없는곳"}, // geocoder knows no match
		},
	}

	center := r.Resolve(context.Background(), m)
	if center == nil {
		t.Fatal("expected a center, got nil")
	}

	if math.Abs(center.Latitude-37.49) > 1e-9 || math.Abs(center.Longitude-127.02) > 1e-9 {
		t.Errorf("center = (%f,%f), want (37.49,127.02)", center.Latitude, center.Longitude)
	}
}

func TestResolveCenterFallsBackToModeDistrict(t *testing.T) {
	geocoder := &fakeGeocoder{
		resolveAddress: func(string) (*meeting.CenterLocation, error) {
			return nil, errors.New("geocoder down")
		},
	}
	r := NewResolver(geocoder, nil)

	m := &meeting.Context{
		LocationChoice: meeting.ChoiceCenterLocation,
		ParticipantLocations: []meeting.ParticipantLocation{
			{Address: "어딘가", District: "마포구"},
			{District: "강남구"},
			{District: "마포구"},
		},
	}

	center := r.Resolve(context.Background(), m)
	if center == nil {
		t.Fatal("expected a sentinel center, got nil")
	}
	if center.HasCoordinates() {
		t.Errorf("expected sentinel coordinates, got (%f,%f)", center.Latitude, center.Longitude)
	}
	if center.District != "마포구" {
		t.Errorf("district = %q, want 마포구 (mode)", center.District)
	}
}

func TestResolveCenterNothingKnown(t *testing.T) {
	r := NewResolver(nil, nil)

	m := &meeting.Context{
		LocationChoice: meeting.ChoiceCenterLocation,
		ParticipantLocations: []meeting.ParticipantLocation{
			{}, {},
		},
	}

	if center := r.Resolve(context.Background(), m); center != nil {
		t.Errorf("expected nil center, got %+v", center)
	}
}

func TestResolvePreferredDistrictGeocoderFailure(t *testing.T) {
	geocoder := &fakeGeocoder{
		resolveAddress: func(string) (*meeting.CenterLocation, error) {
			return nil, errors.New("geocoder down")
		},
	}
	r := NewResolver(geocoder, nil)

	m := &meeting.Context{
		LocationChoice:    meeting.ChoicePreferenceArea,
		PreferredDistrict: "강남구",
	}

	center := r.Resolve(context.Background(), m)
	if center == nil {
		t.Fatal("expected a sentinel center, got nil")
	}
	if center.HasCoordinates() {
		t.Errorf("expected sentinel (0,0), got (%f,%f)", center.Latitude, center.Longitude)
	}
	if center.District != "강남구" {
		t.Errorf("district = %q, want 강남구", center.District)
	}
}

func TestResolvePreferredDistrictSuccess(t *testing.T) {
	geocoder := &fakeGeocoder{
		resolveAddress: func(query string) (*meeting.CenterLocation, error) {
			if query != "서울 강남구" {
				t.Errorf("query = %q, want 서울 강남구", query)
			}
			return &meeting.CenterLocation{Latitude: 37.51, Longitude: 127.04, Address: "서울 강남구"}, nil
		},
	}
	r := NewResolver(geocoder, nil)

	m := &meeting.Context{
		LocationChoice:    meeting.ChoicePreferenceArea,
		PreferredDistrict: "강남구",
	}

	center := r.Resolve(context.Background(), m)
	if center == nil || !center.HasCoordinates() {
		t.Fatalf("expected resolved center, got %+v", center)
	}
	if center.District != "강남구" {
		t.Errorf("district = %q, want 강남구", center.District)
	}
}

func TestResolveStationViaSearch(t *testing.T) {
	geocoder := &fakeGeocoder{
		searchKeyword: func(query string) ([]place.Result, error) {
			if query != "강남역" {
				t.Errorf("query = %q, want 강남역", query)
			}
			return []place.Result{{
				ID:          "1",
				Name:        "강남역 2호선",
				Address:     "서울 강남구 역삼동 858",
				RoadAddress: "서울 강남구 강남대로 396",
				Latitude:    37.4979,
				Longitude:   127.0276,
			}}, nil
		},
	}
	r := NewResolver(geocoder, nil)

	m := &meeting.Context{
		LocationChoice:   meeting.ChoicePreferenceSubway,
		PreferredStation: "강남",
	}

	center := r.Resolve(context.Background(), m)
	if center == nil || !center.HasCoordinates() {
		t.Fatalf("expected resolved center, got %+v", center)
	}
	if center.District != "강남구" {
		t.Errorf("district = %q, want 강남구", center.District)
	}
}

func TestResolveStationFallbackTable(t *testing.T) {
	tests := []struct {
		name     string
		geocoder Geocoder
	}{
		{name: "no search client", geocoder: nil},
		{name: "search fails", geocoder: &fakeGeocoder{
			searchKeyword: func(string) ([]place.Result, error) {
				return nil, errors.New("search down")
			},
		}},
		{name: "search empty", geocoder: &fakeGeocoder{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.geocoder, nil)

			m := &meeting.Context{
				LocationChoice:   meeting.ChoicePreferenceSubway,
				PreferredStation: "홍대입구역",
			}

			center := r.Resolve(context.Background(), m)
			if center == nil {
				t.Fatal("expected a sentinel center, got nil")
			}
			if center.HasCoordinates() {
				t.Errorf("expected sentinel coordinates, got (%f,%f)", center.Latitude, center.Longitude)
			}
			if center.District != "마포구" {
				t.Errorf("district = %q, want 마포구", center.District)
			}
		})
	}
}

func TestDistrictForStation(t *testing.T) {
	if got := DistrictForStation("강남"); got != "강남구" {
		t.Errorf("강남 -> %q, want 강남구", got)
	}
	if got := DistrictForStation("강남역"); got != "강남구" {
		t.Errorf("강남역 -> %q, want 강남구", got)
	}
	if got := DistrictForStation("없는역이름"); got != "" {
		t.Errorf("unknown station -> %q, want empty", got)
	}
}
