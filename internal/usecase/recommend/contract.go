package recommend

import (
	"context"

	"github.com/kailas-cloud/assessrank/internal/domain/search/result"
)

// RankCache stores ranked positions per space fingerprint, query and k.
type RankCache interface {
	Get(ctx context.Context, fingerprint, query string, k int) ([]result.Ref, bool)
	Put(ctx context.Context, fingerprint, query string, k int, refs []result.Ref)
}
