// internal/server/handlers/place.go

package handlers

import (
	"net/http"
	"strconv"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
	"moim/internal/service/recommend"
)

// PlaceHandler handles direct place-search HTTP requests
type PlaceHandler struct {
	provider recommend.SearchProvider
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(provider recommend.SearchProvider) *PlaceHandler {
	return &PlaceHandler{provider: provider}
}

// SearchPlaces proxies a keyword search to the place provider. Optional
// category and sort=distance parameters post-process the provider page.
func (h *PlaceHandler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Missing query", nil)
		return
	}

	opts := place.SearchOptions{
		RadiusMeters: recommend.DefaultRadiusMeters,
		Size:         recommend.DefaultPageSize,
	}

	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if latStr != "" && lngStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid latitude", nil)
			return
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid longitude", nil)
			return
		}
		opts.Anchor = &meeting.CenterLocation{Latitude: lat, Longitude: lng}
	}

	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		radius, err := strconv.Atoi(radiusStr)
		if err != nil || radius <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid radius", nil)
			return
		}
		opts.RadiusMeters = radius
	}

	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid size", nil)
			return
		}
		opts.Size = size
	}

	results, err := h.provider.SearchKeyword(r.Context(), query, opts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Place search failed", err)
		return
	}

	if category := r.URL.Query().Get("category"); category != "" {
		results = recommend.FilterByCategory(results, category)
	}
	if r.URL.Query().Get("sort") == "distance" {
		results = recommend.SortByDistance(results)
	}

	respondWithJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

type searchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []place.Result `json:"results"`
}
