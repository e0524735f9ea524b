// Package recommend serves rankings from the currently published vector space.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/assessrank/internal/domain"
	"github.com/kailas-cloud/assessrank/internal/domain/catalog"
	"github.com/kailas-cloud/assessrank/internal/domain/search/request"
	"github.com/kailas-cloud/assessrank/internal/domain/search/result"
	"github.com/kailas-cloud/assessrank/internal/metrics"
	"github.com/kailas-cloud/assessrank/internal/textnorm"
	"github.com/kailas-cloud/assessrank/internal/vectorspace"
)

// Service publishes a fitted vector space and answers ranking queries against it.
// Load is the single writer; Rank and Recommend may run concurrently with it.
type Service struct {
	space   atomic.Pointer[vectorspace.Space]
	fitOpts []vectorspace.Option
	cache   RankCache
	ranking domain.RankingConfig
	logger  *zap.Logger
}

// New creates a recommendation service. fitOpts are applied on every Load.
func New(logger *zap.Logger, fitOpts ...vectorspace.Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fitOpts: fitOpts,
		ranking: domain.DefaultRankingConfig(),
		logger:  logger,
	}
}

// WithCache enables the ranked-result cache.
func (s *Service) WithCache(c RankCache) *Service {
	s.cache = c
	return s
}

// WithRankingConfig overrides the default result-count limits and score floor.
func (s *Service) WithRankingConfig(cfg domain.RankingConfig) *Service {
	s.ranking = cfg
	return s
}

// Ranking returns the active ranking limits.
func (s *Service) Ranking() domain.RankingConfig { return s.ranking }

// Load fits a vector space over items and publishes it.
// On failure the previously published space stays in service.
func (s *Service) Load(ctx context.Context, items []catalog.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	space, err := vectorspace.Fit(items, s.fitOpts...)
	metrics.CatalogFitDuration.Observe(time.Since(start).Seconds())
	metrics.CatalogFitsTotal.WithLabelValues(metrics.StatusLabel(err)).Inc()
	if err != nil {
		s.logger.Error("Catalog fit failed",
			zap.Int("items", len(items)),
			zap.Bool("previous_kept", s.space.Load() != nil),
			zap.Error(err),
		)
		return fmt.Errorf("fit catalog: %w", err)
	}

	s.space.Store(space)
	metrics.CatalogItems.Set(float64(space.Len()))
	metrics.VocabularyTerms.Set(float64(space.Dim()))

	s.logger.Info("Catalog published",
		zap.Int("items", space.Len()),
		zap.Int("terms", space.Dim()),
		zap.String("fingerprint", space.Fingerprint()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Space returns the published vector space, or nil before the first successful Load.
func (s *Service) Space() *vectorspace.Space { return s.space.Load() }

// Len returns the number of published catalog items (0 when nothing is loaded).
func (s *Service) Len() int {
	if sp := s.space.Load(); sp != nil {
		return sp.Len()
	}
	return 0
}

// Rank returns the full top-k ranking, zero scores included.
func (s *Service) Rank(query string, k int) ([]result.Result, error) {
	space := s.space.Load()
	if space == nil {
		return nil, domain.ErrNotReady
	}
	return space.Rank(query, k)
}

// Recommend ranks the catalog for a validated request and drops results at
// or below the request's score floor. Cache failures degrade to a fresh ranking.
func (s *Service) Recommend(ctx context.Context, req *request.Request) ([]result.Result, error) {
	start := time.Now()
	results, err := s.recommend(ctx, req)
	metrics.RankDuration.Observe(time.Since(start).Seconds())
	metrics.RankRequestsTotal.WithLabelValues(metrics.StatusLabel(err)).Inc()
	if err != nil {
		return nil, err
	}
	return result.AboveScore(results, req.MinScore()), nil
}

func (s *Service) recommend(ctx context.Context, req *request.Request) ([]result.Result, error) {
	space := s.space.Load()
	if space == nil {
		return nil, domain.ErrNotReady
	}

	// Queries that normalize to the same tokens rank identically.
	key := textnorm.Join(space.Normalizer().Normalize(req.Query()))

	if s.cache != nil {
		if refs, ok := s.cache.Get(ctx, space.Fingerprint(), key, req.K()); ok {
			results, err := resolve(space, refs)
			if err == nil {
				return results, nil
			}
			s.logger.Warn("Discarding cached ranking", zap.Error(err))
		}
	}

	results, err := space.Rank(req.Query(), req.K())
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	if s.cache != nil {
		s.cache.Put(ctx, space.Fingerprint(), key, req.K(), result.Refs(results))
	}
	return results, nil
}

var errStaleRef = errors.New("cached ranking references an item outside the catalog")

func resolve(space *vectorspace.Space, refs []result.Ref) ([]result.Result, error) {
	out := make([]result.Result, len(refs))
	for i, ref := range refs {
		if ref.Index < 0 || ref.Index >= space.Len() {
			return nil, errStaleRef
		}
		out[i] = result.New(space.Item(ref.Index), ref.Score, ref.Index)
	}
	return out, nil
}
