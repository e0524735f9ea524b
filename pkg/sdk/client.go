package assessrank

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/assessrank/internal/db"
	dbRedis "github.com/kailas-cloud/assessrank/internal/db/redis"
	"github.com/kailas-cloud/assessrank/internal/domain"
	"github.com/kailas-cloud/assessrank/internal/domain/catalog"
	domeval "github.com/kailas-cloud/assessrank/internal/domain/evaluation"
	"github.com/kailas-cloud/assessrank/internal/domain/search/request"
	"github.com/kailas-cloud/assessrank/internal/domain/search/result"
	catalogrepo "github.com/kailas-cloud/assessrank/internal/repository/catalog"
	"github.com/kailas-cloud/assessrank/internal/repository/rankcache"
	"github.com/kailas-cloud/assessrank/internal/textnorm"
	evaluationuc "github.com/kailas-cloud/assessrank/internal/usecase/evaluation"
	healthuc "github.com/kailas-cloud/assessrank/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/assessrank/internal/usecase/recommend"
	"github.com/kailas-cloud/assessrank/internal/vectorspace"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = time.Hour
	defaultMinTokenLength   = 2
)

// Internal interfaces for substitution in tests.
type recommendUseCase interface {
	Load(ctx context.Context, items []catalog.Item) error
	Rank(query string, k int) ([]result.Result, error)
	Recommend(ctx context.Context, req *request.Request) ([]result.Result, error)
	Ranking() domain.RankingConfig
	Len() int
}

type evaluationUseCase interface {
	Evaluate(ctx context.Context, cases []domeval.Case, k int) (domeval.Report, error)
	Sweep(ctx context.Context, cases []domeval.Case, ks []int) ([]domeval.Report, error)
}

// Client is the assessrank SDK entry point. It is safe for concurrent use;
// Fit may run while queries are served from the previously fitted catalog.
type Client struct {
	store     db.Store
	recSvc    recommendUseCase
	evalSvc   evaluationUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. When WithValkey or WithRedis is given, New connects
// and uses the provided context for the initial readiness check.
// The client answers queries only after Fit or LoadFile succeeds.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		stopWords:      true,
		minTokenLength: defaultMinTokenLength,
		workers:        evaluationuc.DefaultWorkers,
		maxK:           domain.DefaultRankingConfig().MaxK,
		cacheTTL:       defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if cfg.driver != "" {
		store, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("assessrank: cache not ready: %w", err)
		}
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, fmt.Errorf("assessrank: %s address required", cfg.driver)
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			Standalone: cfg.standalone,
		})
		if err != nil {
			return nil, fmt.Errorf("assessrank: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("assessrank: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	norm := textnorm.New(
		textnorm.WithStopWords(cfg.stopWords),
		textnorm.WithMinLength(cfg.minTokenLength),
	)

	ranking := domain.DefaultRankingConfig()
	if cfg.maxK > 0 {
		ranking.MaxK = cfg.maxK
		if ranking.DefaultK > ranking.MaxK {
			ranking.DefaultK = ranking.MaxK
		}
	}

	recSvc := recommenduc.New(zap.NewNop(), vectorspace.WithNormalizer(norm)).
		WithRankingConfig(ranking)

	var healthSvc *healthuc.Service
	if store != nil {
		cache := rankcache.New(store, cfg.cacheTTL, obs.cacheCounter(), zap.NewNop())
		recSvc = recSvc.WithCache(cache)
		healthSvc = healthuc.New(recSvc, store)
	} else {
		healthSvc = healthuc.New(recSvc, nil)
	}

	evalSvc := evaluationuc.New(recSvc, zap.NewNop()).WithWorkers(cfg.workers)

	return &Client{
		store:     store,
		recSvc:    recSvc,
		evalSvc:   evalSvc,
		healthSvc: healthSvc,
		obs:       obs,
	}
}

// Fit builds the ranking model from assessments and publishes it.
// On failure the previously fitted catalog keeps serving.
func (c *Client) Fit(ctx context.Context, assessments []Assessment) error {
	start := time.Now()
	err := c.fit(ctx, assessments)
	c.obs.observe("fit", start, err, "assessments", len(assessments))
	return err
}

func (c *Client) fit(ctx context.Context, assessments []Assessment) error {
	items := make([]catalog.Item, len(assessments))
	seen := make(map[string]struct{}, len(assessments))
	for i := range assessments {
		it, err := assessments[i].toDomain()
		if err != nil {
			return domain.InvalidArgument("assessment %d: %v", i, err)
		}
		if _, dup := seen[it.ID()]; dup {
			return domain.InvalidArgument("duplicate assessment ID %q", it.ID())
		}
		seen[it.ID()] = struct{}{}
		items[i] = it
	}
	return c.recSvc.Load(ctx, items)
}

// LoadFile reads a JSON catalog file and fits it.
func (c *Client) LoadFile(ctx context.Context, path string) error {
	start := time.Now()
	err := c.loadFile(ctx, path)
	c.obs.observe("load_file", start, err, "path", path)
	return err
}

func (c *Client) loadFile(ctx context.Context, path string) error {
	items, err := catalogrepo.New(path).List(ctx)
	if err != nil {
		return err
	}
	return c.recSvc.Load(ctx, items)
}

// Len returns the number of fitted assessments (0 before the first Fit).
func (c *Client) Len() int { return c.recSvc.Len() }

// Rank returns the top-k assessments for query, zero scores included.
// k larger than the catalog is clamped; k < 1 returns ErrInvalidArgument.
func (c *Client) Rank(ctx context.Context, query string, k int) ([]Recommendation, error) {
	start := time.Now()
	var results []result.Result
	err := ctx.Err()
	if err == nil {
		results, err = c.recSvc.Rank(query, k)
	}
	c.obs.observe("rank", start, err, "k", k)
	if err != nil {
		return nil, err
	}
	return recommendationsFromDomain(results), nil
}

// Recommend returns up to k matching assessments, dropping those with no
// overlap with the query. k must be between 1 and the configured maximum.
// Rankings are served from the cache when one is configured.
func (c *Client) Recommend(ctx context.Context, query string, k int) ([]Recommendation, error) {
	start := time.Now()
	results, err := c.recommend(ctx, query, k)
	c.obs.observe("recommend", start, err, "k", k, "results", len(results))
	if err != nil {
		return nil, err
	}
	return recommendationsFromDomain(results), nil
}

func (c *Client) recommend(ctx context.Context, query string, k int) ([]result.Result, error) {
	req, err := request.New(query, k, c.recSvc.Ranking())
	if err != nil {
		return nil, err
	}
	return c.recSvc.Recommend(ctx, &req)
}

// Evaluate ranks every case at cutoff k and reports Recall@k and MAP@k.
func (c *Client) Evaluate(ctx context.Context, cases []Case, k int) (Report, error) {
	start := time.Now()
	report, err := c.evaluate(ctx, cases, k)
	c.obs.observe("evaluate", start, err, "k", k, "cases", len(cases))
	return report, err
}

func (c *Client) evaluate(ctx context.Context, cases []Case, k int) (Report, error) {
	domCases, err := casesToDomain(cases)
	if err != nil {
		return Report{}, err
	}
	r, err := c.evalSvc.Evaluate(ctx, domCases, k)
	if err != nil {
		return Report{}, err
	}
	return reportFromDomain(&r), nil
}

// Sweep evaluates the same cases at several cutoffs, in the order given.
func (c *Client) Sweep(ctx context.Context, cases []Case, ks []int) ([]Report, error) {
	start := time.Now()
	reports, err := c.sweep(ctx, cases, ks)
	c.obs.observe("sweep", start, err, "cutoffs", len(ks), "cases", len(cases))
	return reports, err
}

func (c *Client) sweep(ctx context.Context, cases []Case, ks []int) ([]Report, error) {
	domCases, err := casesToDomain(cases)
	if err != nil {
		return nil, err
	}
	rs, err := c.evalSvc.Sweep(ctx, domCases, ks)
	if err != nil {
		return nil, err
	}
	out := make([]Report, len(rs))
	for i := range rs {
		out[i] = reportFromDomain(&rs[i])
	}
	return out, nil
}

func casesToDomain(cases []Case) ([]domeval.Case, error) {
	out := make([]domeval.Case, len(cases))
	for i := range cases {
		dc, err := cases[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		out[i] = dc
	}
	return out, nil
}

// Close releases the cache connection, if any.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
