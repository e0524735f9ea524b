// Package evaluation scores a ranker against labeled queries.
package evaluation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/assessrank/internal/domain"
	domeval "github.com/kailas-cloud/assessrank/internal/domain/evaluation"
	"github.com/kailas-cloud/assessrank/internal/metrics"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 4

// Service runs evaluation cases through a Ranker.
type Service struct {
	ranker  Ranker
	workers int
	logger  *zap.Logger
}

// New creates an evaluation service.
func New(ranker Ranker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ranker: ranker, workers: DefaultWorkers, logger: logger}
}

// WithWorkers sets the number of cases ranked concurrently.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// Evaluate ranks every case at cutoff k and aggregates Recall@k and MAP@k.
// Arguments are validated before any ranking happens. The report lists cases
// in input order regardless of completion order.
func (s *Service) Evaluate(ctx context.Context, cases []domeval.Case, k int) (domeval.Report, error) {
	start := time.Now()
	report, err := s.evaluate(ctx, cases, k)
	metrics.EvaluationRunsTotal.WithLabelValues(metrics.StatusLabel(err)).Inc()
	if err != nil {
		return domeval.Report{}, err
	}

	kl := strconv.Itoa(k)
	metrics.EvaluationMeanRecall.WithLabelValues(kl).Set(report.MeanRecall())
	metrics.EvaluationMAP.WithLabelValues(kl).Set(report.MAP())

	s.logger.Info("Evaluation completed",
		zap.Int("k", k),
		zap.Int("cases", report.Len()),
		zap.Float64("mean_recall", report.MeanRecall()),
		zap.Float64("map", report.MAP()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

// Sweep evaluates the same cases at each cutoff in ks, in order.
func (s *Service) Sweep(ctx context.Context, cases []domeval.Case, ks []int) ([]domeval.Report, error) {
	if len(ks) == 0 {
		return nil, domain.InvalidArgument("at least one k is required")
	}
	for _, k := range ks {
		if k < 1 {
			return nil, domain.InvalidArgument("k must be >= 1, got %d", k)
		}
	}

	reports := make([]domeval.Report, 0, len(ks))
	for _, k := range ks {
		r, err := s.Evaluate(ctx, cases, k)
		if err != nil {
			return nil, fmt.Errorf("evaluate k=%d: %w", k, err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func (s *Service) evaluate(ctx context.Context, cases []domeval.Case, k int) (domeval.Report, error) {
	if k < 1 {
		return domeval.Report{}, domain.InvalidArgument("k must be >= 1, got %d", k)
	}
	for i := range cases {
		if strings.TrimSpace(cases[i].Query()) == "" {
			return domeval.Report{}, domain.InvalidArgument("case %d: query is required", i)
		}
	}

	results := make([]domeval.CaseResult, len(cases))
	if len(cases) == 0 {
		return domeval.NewReport(k, results), nil
	}

	pool, err := ants.NewPool(min(s.workers, len(cases)))
	if err != nil {
		return domeval.Report{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i := range cases {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}
		wg.Add(1)
		c := &cases[i]
		idx := i
		if err := pool.Submit(func() {
			defer wg.Done()
			cr, err := s.evaluateCase(ctx, c, k)
			if err != nil {
				fail(fmt.Errorf("case %d: %w", idx, err))
				return
			}
			results[idx] = cr
		}); err != nil {
			wg.Done()
			fail(fmt.Errorf("submit case %d: %w", idx, err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return domeval.Report{}, firstErr
	}
	return domeval.NewReport(k, results), nil
}

func (s *Service) evaluateCase(ctx context.Context, c *domeval.Case, k int) (domeval.CaseResult, error) {
	if err := ctx.Err(); err != nil {
		return domeval.CaseResult{}, err
	}
	ranked, err := s.ranker.Rank(c.Query(), k)
	if err != nil {
		return domeval.CaseResult{}, fmt.Errorf("rank: %w", err)
	}

	match := c.Match()
	keys := make([]string, len(ranked))
	for i := range ranked {
		item := ranked[i].Item()
		keys[i] = match.Key(&item)
	}
	return domeval.NewCaseResult(c, keys, k), nil
}
