package result

import "github.com/kailas-cloud/assessrank/internal/domain/catalog"

// Result is a single ranked catalog hit.
type Result struct {
	item  catalog.Item
	score float64
	index int
}

// New creates a ranked result for the item at the given corpus position.
func New(item catalog.Item, score float64, index int) Result {
	return Result{item: item, score: score, index: index}
}

// Item returns the matched catalog item.
func (r *Result) Item() catalog.Item { return r.item }

// ID returns the matched item identifier.
func (r *Result) ID() string { return r.item.ID() }

// Score returns the cosine similarity in [0, 1].
func (r *Result) Score() float64 { return r.score }

// Index returns the item's position in the fitted corpus.
func (r *Result) Index() int { return r.index }

// IDs extracts item identifiers in rank order.
func IDs(results []Result) []string {
	ids := make([]string, len(results))
	for i := range results {
		ids[i] = results[i].ID()
	}
	return ids
}

// AboveScore keeps results with a score strictly greater than minScore, preserving order.
func AboveScore(results []Result, minScore float64) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.score > minScore {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Ref points at a ranked item by corpus position, without the item itself.
type Ref struct {
	Index int
	Score float64
}

// Refs reduces results to their corpus positions and scores.
func Refs(results []Result) []Ref {
	refs := make([]Ref, len(results))
	for i := range results {
		refs[i] = Ref{Index: results[i].index, Score: results[i].score}
	}
	return refs
}
