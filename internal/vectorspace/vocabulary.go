package vectorspace

import "sort"

// Vocabulary maps normalized terms to dense, 0-based indices assigned in
// sorted term order, so identical corpora always produce identical indices.
type Vocabulary struct {
	terms []string
	index map[string]int
}

func newVocabulary(terms []string) Vocabulary {
	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	for i, t := range sorted {
		index[t] = i
	}
	return Vocabulary{terms: sorted, index: index}
}

// Len returns the number of terms.
func (v Vocabulary) Len() int { return len(v.terms) }

// Index returns the index of term and whether it is known.
func (v Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the term at index i.
func (v Vocabulary) Term(i int) string { return v.terms[i] }

// Terms returns a copy of all terms in index order.
func (v Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}
