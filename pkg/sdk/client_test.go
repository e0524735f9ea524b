package assessrank

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_InMemory(t *testing.T) {
	c, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if c.store != nil {
		t.Error("expected no store without a cache driver")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown", addrs: []string{"localhost:1234"}}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_MissingAddress(t *testing.T) {
	cfg := &clientConfig{}
	WithValkey("", "").apply(cfg)
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestNew_IncompatibleMetric(t *testing.T) {
	reg := prometheus.NewRegistry()
	clash := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "assessrank",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "Total SDK operations by type and status.",
	})
	reg.MustRegister(clash)

	_, err := New(context.Background(), WithPrometheus(reg))
	if err == nil {
		t.Fatal("expected error for incompatible metric")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v, want [localhost:6379]", cfg.addrs)
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	cfg2 := &clientConfig{}
	WithRedis("localhost:6380", "pass").apply(cfg2)
	WithStandalone().apply(cfg2)
	WithCacheTTL(time.Minute).apply(cfg2)
	if cfg2.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg2.driver)
	}
	if !cfg2.standalone {
		t.Error("expected standalone")
	}
	if cfg2.cacheTTL != time.Minute {
		t.Errorf("cacheTTL = %v, want 1m", cfg2.cacheTTL)
	}

	cfg3 := &clientConfig{stopWords: true}
	WithStopWords(false).apply(cfg3)
	WithMinTokenLength(3).apply(cfg3)
	WithWorkers(8).apply(cfg3)
	WithMaxRecommendations(20).apply(cfg3)
	if cfg3.stopWords {
		t.Error("expected stop words disabled")
	}
	if cfg3.minTokenLength != 3 {
		t.Errorf("minTokenLength = %d, want 3", cfg3.minTokenLength)
	}
	if cfg3.workers != 8 {
		t.Errorf("workers = %d, want 8", cfg3.workers)
	}
	if cfg3.maxK != 20 {
		t.Errorf("maxK = %d, want 20", cfg3.maxK)
	}

	cfg4 := &clientConfig{}
	logger := slog.Default()
	WithLogger(logger).apply(cfg4)
	if cfg4.logger != logger {
		t.Error("expected logger to be set")
	}

	cfg5 := &clientConfig{}
	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg5)
	if cfg5.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestClient_Close_ClosesStore(t *testing.T) {
	store := newFakeStore()
	c := testClient(store)
	c.Close()
	if !store.closed {
		t.Error("expected store to be closed")
	}
}

func TestClient_RankBeforeFit(t *testing.T) {
	c := testClient(nil)
	_, err := c.Rank(context.Background(), "java", 3)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
	_, err = c.Recommend(context.Background(), "java", 3)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
}

func TestClient_FitAndRank(t *testing.T) {
	c := testClient(nil)
	ctx := context.Background()
	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}

	recs, err := c.Rank(ctx, "java programming", 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3 (k clamped to catalog size)", len(recs))
	}
	if recs[0].ID != "A" || recs[0].Score <= 0 {
		t.Errorf("top = %s (%.3f), want A with positive score", recs[0].ID, recs[0].Score)
	}
	if recs[1].ID != "B" || recs[2].ID != "C" {
		t.Errorf("tail = [%s %s], want [B C] in catalog order", recs[1].ID, recs[2].ID)
	}
	if recs[1].Score != 0 || recs[2].Score != 0 {
		t.Error("expected zero scores for non-matching items")
	}
	if recs[0].Name != "Java 8 (New)" || recs[0].Duration != 18 || len(recs[0].TestTypes) != 1 {
		t.Errorf("attributes not carried: %+v", recs[0].Assessment)
	}
}

func TestClient_Rank_InvalidK(t *testing.T) {
	c := testClient(nil)
	if err := c.Fit(context.Background(), testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	_, err := c.Rank(context.Background(), "java", 0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestClient_Rank_CanceledContext(t *testing.T) {
	c := testClient(nil)
	if err := c.Fit(context.Background(), testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Rank(ctx, "java", 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestClient_Recommend_DropsZeroScores(t *testing.T) {
	c := testClient(nil)
	ctx := context.Background()
	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	recs, err := c.Recommend(ctx, "java programming", 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "A" {
		t.Fatalf("recs = %+v, want only A", recs)
	}

	recs, err = c.Recommend(ctx, "underwater basket weaving", 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("len = %d, want 0 for out-of-vocabulary query", len(recs))
	}
}

func TestClient_Recommend_Validation(t *testing.T) {
	c := testClient(nil)
	ctx := context.Background()
	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	tests := []struct {
		name  string
		query string
		k     int
	}{
		{"zero k", "java", 0},
		{"k above max", "java", 11},
		{"blank query", "   ", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Recommend(ctx, tt.query, tt.k)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestClient_Recommend_MaxRecommendations(t *testing.T) {
	c := testClient(nil, WithMaxRecommendations(2))
	ctx := context.Background()
	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := c.Recommend(ctx, "java", 3); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if _, err := c.Recommend(ctx, "java", 2); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
}

func TestClient_Recommend_UsesCache(t *testing.T) {
	store := newFakeStore()
	c := testClient(store)
	ctx := context.Background()
	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	first, err := c.Recommend(ctx, "Java programming", 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if store.sets != 1 {
		t.Fatalf("sets = %d, want 1", store.sets)
	}

	// Same tokens after normalization share one cache entry.
	second, err := c.Recommend(ctx, "java, PROGRAMMING!", 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if store.sets != 1 {
		t.Errorf("sets = %d, want 1 (second call served from cache)", store.sets)
	}
	if store.gets != 2 {
		t.Errorf("gets = %d, want 2", store.gets)
	}
	if len(first) != len(second) || first[0].ID != second[0].ID || first[0].Score != second[0].Score {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestClient_Fit_EmptyKeepsPrevious(t *testing.T) {
	c := testClient(nil)
	ctx := context.Background()
	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	err := c.Fit(ctx, nil)
	if !errors.Is(err, ErrBuild) {
		t.Fatalf("err = %v, want ErrBuild", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want previous catalog of 3", c.Len())
	}
}

func TestClient_Fit_InvalidAssessments(t *testing.T) {
	c := testClient(nil)
	ctx := context.Background()

	err := c.Fit(ctx, []Assessment{{ID: "A"}, {ID: "A"}})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("duplicate: err = %v, want ErrInvalidArgument", err)
	}

	err = c.Fit(ctx, []Assessment{{ID: " ", Description: "x"}})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank ID: err = %v, want ErrInvalidArgument", err)
	}
}

func TestClient_Fit_StopWordsDisabled(t *testing.T) {
	c := testClient(nil, WithStopWords(false))
	ctx := context.Background()
	err := c.Fit(ctx, []Assessment{
		{ID: "A", Description: "the"},
		{ID: "B", Description: "java"},
	})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	recs, err := c.Recommend(ctx, "the", 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "A" {
		t.Errorf("recs = %+v, want A matched on a stop word", recs)
	}
}

func TestClient_LoadFile_Missing(t *testing.T) {
	c := testClient(nil)
	if err := c.LoadFile(context.Background(), t.TempDir()+"/missing.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestClient_Evaluate(t *testing.T) {
	c := testClient(nil)
	ctx := context.Background()
	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	report, err := c.Evaluate(ctx, []Case{
		{Query: "java programming", RelevantNames: []string{"Java 8 (New)"}},
		{Query: "spreadsheet pivot", RelevantIDs: []string{"B", "C"}},
	}, 2)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if report.K != 2 || len(report.Cases) != 2 {
		t.Fatalf("report = %+v", report)
	}
	if got := report.Cases[1].Retrieved; len(got) != 2 || got[0] != "B" || got[1] != "A" {
		t.Errorf("retrieved = %v, want [B A]", got)
	}
	if report.Cases[1].Hits != 1 {
		t.Errorf("hits = %d, want 1", report.Cases[1].Hits)
	}
	if math.Abs(report.MeanRecall-0.75) > 1e-9 {
		t.Errorf("MeanRecall = %v, want 0.75", report.MeanRecall)
	}
	if math.Abs(report.MAP-1) > 1e-9 {
		t.Errorf("MAP = %v, want 1", report.MAP)
	}
}

func TestClient_Evaluate_BothLabelKinds(t *testing.T) {
	c := testClient(nil)
	if err := c.Fit(context.Background(), testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	_, err := c.Evaluate(context.Background(), []Case{
		{Query: "java", RelevantIDs: []string{"A"}, RelevantNames: []string{"Excel"}},
	}, 1)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestClient_Sweep(t *testing.T) {
	c := testClient(nil)
	ctx := context.Background()
	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	reports, err := c.Sweep(ctx, []Case{
		{Query: "spreadsheet pivot", RelevantIDs: []string{"B", "C"}},
	}, []int{1, 3})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(reports) != 2 || reports[0].K != 1 || reports[1].K != 3 {
		t.Fatalf("reports = %+v", reports)
	}
	if reports[0].MeanRecall != 0.5 || reports[1].MeanRecall != 1 {
		t.Errorf("recall = [%v %v], want [0.5 1]", reports[0].MeanRecall, reports[1].MeanRecall)
	}
}

func TestClient_Health(t *testing.T) {
	ctx := context.Background()

	c := testClient(nil)
	h := c.Health(ctx)
	if h.Status != "error" || h.Checks["catalog"] != "error" {
		t.Errorf("before fit = %+v, want error", h)
	}
	if _, ok := h.Checks["cache"]; ok {
		t.Error("unexpected cache check without a store")
	}

	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	h = c.Health(ctx)
	if h.Status != "ok" || h.Assessments != 3 {
		t.Errorf("after fit = %+v, want ok with 3 assessments", h)
	}

	store := newFakeStore()
	store.pingErr = errPing
	c = testClient(store)
	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	h = c.Health(ctx)
	if h.Status != "degraded" || h.Checks["cache"] != "error" {
		t.Errorf("cache down = %+v, want degraded", h)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
	if obs.cacheCounter() == nil {
		t.Error("expected detached cache counter")
	}
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(slog.Default(), reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("rank", time.Now(), nil, "k", 5)
	obs.observe("rank", time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("rank", "ok")); got != 1 {
		t.Errorf("ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("rank", "error")); got != 1 {
		t.Errorf("error = %v, want 1", got)
	}

	// A second observer on the same registry reuses the collectors.
	obs2, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second newObserver: %v", err)
	}
	if obs2.metrics.operations != obs.metrics.operations {
		t.Error("expected collectors to be reused")
	}
}

func TestClient_CacheMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	cfg := &clientConfig{stopWords: true, minTokenLength: 2, workers: 1, cacheTTL: time.Minute}
	c := wireClient(newFakeStore(), cfg, obs)
	ctx := context.Background()
	if err := c.Fit(ctx, testAssessments()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for range 2 {
		if _, err := c.Recommend(ctx, "java", 1); err != nil {
			t.Fatalf("Recommend: %v", err)
		}
	}

	if got := testutil.ToFloat64(obs.metrics.cache.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.cache.WithLabelValues("hit")); got != 1 {
		t.Errorf("hit = %v, want 1", got)
	}
}
