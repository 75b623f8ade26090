// internal/service/recommend/pipeline.go

package recommend

import (
	"context"
	"log/slog"

	"moim/internal/domain/meeting"
	"moim/internal/domain/place"
	"moim/internal/service/keyword"
	"moim/internal/service/locate"
)

// Pipeline composes the full recommendation flow: anchor resolution,
// keyword synthesis, concurrent search, enrichment, and ranking. One
// synchronous call per meeting; progress is streamed out of band.
type Pipeline struct {
	resolver    *locate.Resolver
	searcher    *Searcher
	recommender *Recommender
	publisher   EventPublisher
	logger      *slog.Logger

	maxKeywords int
	maxDetailed int
}

// PipelineOption tunes a Pipeline.
type PipelineOption func(*Pipeline)

// WithMaxKeywords overrides how many keywords a run generates.
func WithMaxKeywords(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxKeywords = n
		}
	}
}

// WithMaxDetailed overrides how many leading candidates get enriched.
func WithMaxDetailed(n int) PipelineOption {
	return func(p *Pipeline) {
		if n >= 0 {
			p.maxDetailed = n
		}
	}
}

// NewPipeline wires the pipeline stages together. publisher may be nil,
// in which case no progress events are emitted. A nil logger falls back
// to slog.Default().
func NewPipeline(resolver *locate.Resolver, searcher *Searcher, recommender *Recommender, publisher EventPublisher, logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		resolver:    resolver,
		searcher:    searcher,
		recommender: recommender,
		publisher:   publisher,
		logger:      logger,
		maxKeywords: keyword.DefaultMaxKeywords,
		maxDetailed: DefaultMaxDetailed,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result carries every intermediate product of a run alongside the final
// recommendations, so callers can persist or display any of them.
type Result struct {
	Context         *meeting.Context           `json:"context"`
	Anchor          *meeting.CenterLocation    `json:"anchor,omitempty"`
	Keywords        []place.Keyword            `json:"keywords"`
	Places          []place.Candidate          `json:"places"`
	Recommendations place.RecommendationResult `json:"recommendations"`
}

// Run executes the whole pipeline for one meeting. Degraded stages
// (unresolvable anchor, failed searches, unparseable ranking) narrow the
// output rather than failing the run; Run returns an error only when the
// context is canceled.
func (p *Pipeline) Run(ctx context.Context, m *meeting.Context, topN int) (*Result, error) {
	log := p.logger.With("meeting_id", m.ID)

	publishProgress(p.publisher, log, m.ID, StageResolvingLocation, "모임 위치를 분석하고 있습니다", 0)

	anchor := p.resolver.Resolve(ctx, m)
	if anchor != nil {
		m.Center = anchor
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keywords := keyword.Generate(m, p.maxKeywords)
	log.Info("keywords generated", "count", len(keywords), "district", m.District())
	publishProgress(p.publisher, log, m.ID, StageKeywordsGenerated, "검색 키워드를 생성했습니다", len(keywords))

	results := p.searcher.Search(ctx, keywords, m.Center)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info("search completed", "candidates", len(results))
	publishProgress(p.publisher, log, m.ID, StageSearchCompleted, "후보 장소를 찾았습니다", len(results))

	candidates := p.searcher.Enrich(ctx, results, p.maxDetailed)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recommendations := p.recommender.Recommend(ctx, m, candidates, topN)
	log.Info("ranking completed",
		"recommendations", len(recommendations.Recommendations),
		"model", recommendations.ModelUsed)
	publishProgress(p.publisher, log, m.ID, StageRankingCompleted, "추천 결과가 준비되었습니다", len(recommendations.Recommendations))

	return &Result{
		Context:         m,
		Anchor:          anchor,
		Keywords:        keywords,
		Places:          candidates,
		Recommendations: recommendations,
	}, nil
}
