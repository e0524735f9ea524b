// Package request validates recommendation queries at the service boundary.
package request

import (
	"strings"

	"github.com/kailas-cloud/assessrank/internal/domain"
)

// MaxQueryLength is the maximum allowed query length in bytes.
const MaxQueryLength = 8192

// Request is a validated recommendation query.
type Request struct {
	query    string
	k        int
	minScore float64
}

// New validates a query and result count against the ranking limits.
// Callers substitute cfg.DefaultK when the client did not send a count.
func New(query string, k int, cfg domain.RankingConfig) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, domain.InvalidArgument("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, domain.InvalidArgument("query too long (max %d bytes)", MaxQueryLength)
	}
	if k < 1 || k > cfg.MaxK {
		return Request{}, domain.InvalidArgument("num_recommendations must be between 1 and %d, got %d", cfg.MaxK, k)
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		return Request{}, domain.InvalidArgument("min_score must be between 0 and 1")
	}

	return Request{query: query, k: k, minScore: cfg.MinScore}, nil
}

// Query returns the query text as given.
func (r *Request) Query() string { return r.query }

// K returns the number of results requested.
func (r *Request) K() int { return r.k }

// MinScore returns the exclusive lower score bound for returned results.
func (r *Request) MinScore() float64 { return r.minScore }
