package assessrank

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kailas-cloud/assessrank/internal/db"
)

// --- db.Store fake ---

type fakeStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	pingErr error
	closed  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (s *fakeStore) Ping(_ context.Context) error { return s.pingErr }

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	v, ok := s.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	s.data[key] = value
	return nil
}

func (s *fakeStore) SetWithTTL(ctx context.Context, key string, value []byte, _ time.Duration) error {
	return s.Set(ctx, key, value)
}

func (s *fakeStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStore) Close() { s.closed = true }

func (s *fakeStore) WaitForReady(_ context.Context, _ time.Duration) error { return s.pingErr }

var errPing = errors.New("connection refused")

// --- helpers ---

func testAssessments() []Assessment {
	return []Assessment{
		{
			ID:          "A",
			Name:        "Java 8 (New)",
			Description: "Multi-choice test measuring knowledge of Java programming",
			TestTypes:   []string{"Knowledge & Skills"},
			Duration:    18,
		},
		{
			ID:            "B",
			Name:          "Excel",
			Description:   "Spreadsheet formulas and pivot tables",
			RemoteSupport: true,
		},
		{
			ID:          "C",
			Name:        "Team Collaboration",
			Description: "Situational judgement about collaboration in teams",
			TestTypes:   []string{"Personality & Behavior"},
			AdaptiveIRT: true,
		},
	}
}

func testClient(store db.Store, opts ...Option) *Client {
	cfg := &clientConfig{
		stopWords:      true,
		minTokenLength: defaultMinTokenLength,
		workers:        2,
		cacheTTL:       defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	return wireClient(store, cfg, &observer{})
}
