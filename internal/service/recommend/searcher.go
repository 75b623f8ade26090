// internal/service/recommend/searcher.go

// Package recommend orchestrates the back half of the pipeline: the
// concurrent keyword search fan-out, best-effort candidate enrichment,
// and the model-backed ranking with its deterministic fallback.
package recommend

import (
	"context"
	"log/slog"
	"sync"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
)

// Search-phase defaults.
const (
	DefaultRadiusMeters = 5000
	DefaultPageSize     = 15

	// DefaultMaxDetailed bounds how many leading results receive the
	// secondary enrichment lookup.
	DefaultMaxDetailed = 10
)

// SearchProvider is the slice of the place-search vendor the searcher
// needs. *kakao.Client satisfies it.
type SearchProvider interface {
	SearchKeyword(ctx context.Context, query string, opts place.SearchOptions) ([]place.Result, error)
}

// Searcher fans search keywords out to the provider and merges the
// per-keyword pages into one deduplicated candidate list.
type Searcher struct {
	provider     SearchProvider
	logger       *slog.Logger
	radiusMeters int
	pageSize     int
}

// SearcherOption tunes a Searcher.
type SearcherOption func(*Searcher)

// WithRadius overrides the anchored-search radius.
func WithRadius(meters int) SearcherOption {
	return func(s *Searcher) {
		if meters > 0 {
			s.radiusMeters = meters
		}
	}
}

// WithPageSize overrides the per-keyword page size.
func WithPageSize(size int) SearcherOption {
	return func(s *Searcher) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewSearcher builds a Searcher with the default radius and page size.
// A nil logger falls back to slog.Default().
func NewSearcher(provider SearchProvider, logger *slog.Logger, opts ...SearcherOption) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Searcher{
		provider:     provider,
		logger:       logger,
		radiusMeters: DefaultRadiusMeters,
		pageSize:     DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search issues one provider request per keyword, all concurrently, and
// waits for every request to settle. A failing request logs a warning and
// contributes zero results. The merged list concatenates pages in keyword
// order (the slice arrives priority-sorted), then drops duplicate place
// ids keeping the first occurrence, so merge order never depends on
// request completion order.
func (s *Searcher) Search(ctx context.Context, keywords []place.Keyword, anchor *meeting.CenterLocation) []place.Result {
	if len(keywords) == 0 {
		return nil
	}

	opts := place.SearchOptions{
		Anchor:       anchor,
		RadiusMeters: s.radiusMeters,
		Size:         s.pageSize,
	}

	pages := make([][]place.Result, len(keywords))

	var wg sync.WaitGroup
	for i, kw := range keywords {
		wg.Add(1)
		go func(i int, kw place.Keyword) {
			defer wg.Done()

			results, err := s.provider.SearchKeyword(ctx, kw.Text, opts)
			if err != nil {
				s.logger.Warn("keyword search failed",
					"keyword", kw.Text,
					"priority", kw.Priority,
					"error", err)
				return
			}
			pages[i] = results
		}(i, kw)
	}
	wg.Wait()

	seen := make(map[string]bool)
	var merged []place.Result
	for _, page := range pages {
		for _, r := range page {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			merged = append(merged, r)
		}
	}
	return merged
}

// Enrich wraps results as candidates, giving the first maxDetailed of
// them a best-effort secondary lookup for ranking hints. Lookups run
// concurrently; an individual failure degrades that one candidate to
// unenriched. Input order is preserved.
func (s *Searcher) Enrich(ctx context.Context, results []place.Result, maxDetailed int) []place.Candidate {
	candidates := make([]place.Candidate, len(results))
	for i, r := range results {
		candidates[i] = place.NewCandidate(r)
	}

	detailed := len(candidates)
	if maxDetailed >= 0 && detailed > maxDetailed {
		detailed = maxDetailed
	}

	var wg sync.WaitGroup
	for i := 0; i < detailed; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			hints, err := s.lookupHints(ctx, candidates[i].Result)
			if err != nil {
				s.logger.Warn("enrichment lookup failed",
					"place", candidates[i].Name,
					"error", err)
				return
			}
			candidates[i].Hints = hints
		}(i)
	}
	wg.Wait()

	return candidates
}

// lookupHints re-searches the place by district and name and harvests
// category leaves from the matching pages as ranking hints.
func (s *Searcher) lookupHints(ctx context.Context, r place.Result) ([]string, error) {
	query := r.Name
	if district := r.District(); district != "" {
		query = district + " " + r.Name
	}

	matches, err := s.provider.SearchKeyword(ctx, query, place.SearchOptions{Size: 3})
	if err != nil {
		return nil, err
	}

	var hints []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if m.ID != r.ID && m.Name != r.Name {
			continue
		}
		if leaf := categoryLeaf(m.CategoryName); leaf != "" && !seen[leaf] {
			seen[leaf] = true
			hints = append(hints, leaf)
		}
	}
	return hints, nil
}
