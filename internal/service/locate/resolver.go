// internal/service/locate/resolver.go

// Package locate turns a meeting's location signals into a single search
// anchor. It never fails outright: when external data is missing or the
// geocoder is down it degrades to a district-only sentinel anchor, or to no
// anchor at all, so keyword generation can still proceed.
package locate

import (
	"context"
	"log/slog"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
)

// Geocoder provides the geocoding operations the resolver needs. The Kakao
// adapter implements it; tests inject fakes.
type Geocoder interface {
	// ResolveAddress geocodes an address; nil result means no match.
	ResolveAddress(ctx context.Context, query string) (*meeting.CenterLocation, error)

	// DistrictForCoord reverse-geocodes a point to its district name.
	DistrictForCoord(ctx context.Context, lat, lng float64) (string, error)

	// SearchKeyword is used to resolve station names to coordinates.
	SearchKeyword(ctx context.Context, query string, opts place.SearchOptions) ([]place.Result, error)
}

// Resolver dispatches on the meeting's location choice type.
type Resolver struct {
	geocoder Geocoder
	logger   *slog.Logger
}

// NewResolver creates a resolver. A nil geocoder is allowed; every strategy
// then degrades to its offline fallback.
func NewResolver(geocoder Geocoder, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		geocoder: geocoder,
		logger:   logger,
	}
}

// Resolve produces the search anchor for a meeting, or nil when nothing at
// all is known. It never returns an error: partial external failures
// degrade to sentinel or district-only anchors.
func (r *Resolver) Resolve(ctx context.Context, m *meeting.Context) *meeting.CenterLocation {
	switch m.LocationChoice {
	case meeting.ChoicePreferenceArea:
		return r.resolvePreferredDistrict(ctx, m.PreferredDistrict)
	case meeting.ChoicePreferenceSubway:
		return r.resolveStation(ctx, m.PreferredStation)
	default:
		return r.resolveCenter(ctx, m.ParticipantLocations)
	}
}

// resolveCenter averages the participants' coordinates. Participants with
// only an address are geocoded first; if no coordinate survives, the most
// common district becomes a sentinel anchor.
func (r *Resolver) resolveCenter(ctx context.Context, locations []meeting.ParticipantLocation) *meeting.CenterLocation {
	if len(locations) == 0 {
		return nil
	}

	type coord struct{ lat, lng float64 }
	var coords []coord

	for _, loc := range locations {
		if loc.Latitude != nil && loc.Longitude != nil {
			coords = append(coords, coord{*loc.Latitude, *loc.Longitude})
			continue
		}
		if loc.Address == "" || r.geocoder == nil {
			continue
		}

		resolved, err := r.geocoder.ResolveAddress(ctx, loc.Address)
		if err != nil {
			r.logger.Warn("participant address not geocodable",
				"participant_id", loc.ParticipantID,
				"error", err)
			continue
		}
		if resolved != nil {
			coords = append(coords, coord{resolved.Latitude, resolved.Longitude})
		}
	}

	if len(coords) == 0 {
		if district := modeDistrict(locations); district != "" {
			return &meeting.CenterLocation{District: district}
		}
		return nil
	}

	var sumLat, sumLng float64
	for _, c := range coords {
		sumLat += c.lat
		sumLng += c.lng
	}
	center := &meeting.CenterLocation{
		Latitude:  sumLat / float64(len(coords)),
		Longitude: sumLng / float64(len(coords)),
	}

	if r.geocoder != nil {
		district, err := r.geocoder.DistrictForCoord(ctx, center.Latitude, center.Longitude)
		if err != nil {
			r.logger.Warn("district lookup for centroid failed", "error", err)
		} else {
			center.District = district
		}
	}

	return center
}

// resolvePreferredDistrict geocodes the voted district directly. Geocoder
// failure yields a sentinel anchor tagged with the district instead of an
// error.
func (r *Resolver) resolvePreferredDistrict(ctx context.Context, district string) *meeting.CenterLocation {
	if district == "" {
		return nil
	}

	sentinel := &meeting.CenterLocation{District: district}
	if r.geocoder == nil {
		return sentinel
	}

	resolved, err := r.geocoder.ResolveAddress(ctx, "서울 "+district)
	if err != nil {
		r.logger.Warn("district center lookup failed", "district", district, "error", err)
		return sentinel
	}
	if resolved == nil {
		return sentinel
	}

	resolved.District = district
	return resolved
}

// resolveStation resolves a station name via a "<station>역" keyword search.
// When the search client is unavailable or finds nothing, the static
// station table provides a district-only sentinel.
func (r *Resolver) resolveStation(ctx context.Context, station string) *meeting.CenterLocation {
	if station == "" {
		return nil
	}

	if r.geocoder != nil {
		results, err := r.geocoder.SearchKeyword(ctx, stationQuery(station), place.SearchOptions{Size: 1})
		if err != nil {
			r.logger.Warn("station lookup failed", "station", station, "error", err)
		} else if len(results) > 0 {
			top := results[0]
			address := top.RoadAddress
			if address == "" {
				address = top.Address
			}
			return &meeting.CenterLocation{
				Latitude:  top.Latitude,
				Longitude: top.Longitude,
				Address:   address,
				District:  districtFromAddress(address),
			}
		}
	}

	if district := DistrictForStation(station); district != "" {
		return &meeting.CenterLocation{District: district}
	}

	return nil
}

// modeDistrict returns the most frequent district among participants, ties
// broken by first appearance.
func modeDistrict(locations []meeting.ParticipantLocation) string {
	counts := make(map[string]int)
	var order []string

	for _, loc := range locations {
		if loc.District == "" {
			continue
		}
		if counts[loc.District] == 0 {
			order = append(order, loc.District)
		}
		counts[loc.District]++
	}

	best := ""
	for _, district := range order {
		if best == "" || counts[district] > counts[best] {
			best = district
		}
	}
	return best
}
