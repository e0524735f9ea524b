package vectorspace

import (
	"sort"

	"github.com/kailas-cloud/assessrank/internal/domain"
	"github.com/kailas-cloud/assessrank/internal/domain/search/result"
)

// Rank scores every catalog item against query and returns the top k by
// descending cosine similarity. Equal scores keep corpus order. k larger than
// the corpus yields the full ranking; k < 1 is rejected.
func (s *Space) Rank(query string, k int) ([]result.Result, error) {
	if k < 1 {
		return nil, domain.InvalidArgument("k must be at least 1, got %d", k)
	}

	q := s.Embed(query)

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, len(s.vectors))
	for i, v := range s.vectors {
		ranked[i] = scored{index: i, score: Cosine(q, v)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]result.Result, k)
	for i := range out {
		out[i] = result.New(s.items[ranked[i].index], ranked[i].score, ranked[i].index)
	}
	return out, nil
}
