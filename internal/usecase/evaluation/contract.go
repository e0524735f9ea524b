package evaluation

import "github.com/kailas-cloud/assessrank/internal/domain/search/result"

// Ranker returns the top-k catalog items for a query.
type Ranker interface {
	Rank(query string, k int) ([]result.Result, error)
}
