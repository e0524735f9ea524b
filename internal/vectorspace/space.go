package vectorspace

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/kailas-cloud/assessrank/internal/domain"
	"github.com/kailas-cloud/assessrank/internal/domain/catalog"
	"github.com/kailas-cloud/assessrank/internal/textnorm"
)

// Space is a fitted TF-IDF model: frozen vocabulary, idf weights and one
// L2-normalized vector per catalog item.
type Space struct {
	normalizer  *textnorm.Normalizer
	items       []catalog.Item
	vocab       Vocabulary
	weights     []float64
	vectors     []Vector
	fingerprint string
}

// Option configures Fit.
type Option func(*fitConfig)

type fitConfig struct {
	normalizer *textnorm.Normalizer
}

// WithNormalizer sets the text normalizer used for items and queries.
func WithNormalizer(n *textnorm.Normalizer) Option {
	return func(c *fitConfig) {
		if n != nil {
			c.normalizer = n
		}
	}
}

// Fit builds a Space from the corpus. It fails with a *domain.BuildError when
// the corpus is empty or contains no indexable terms.
func Fit(items []catalog.Item, opts ...Option) (*Space, error) {
	if len(items) == 0 {
		return nil, domain.NewBuildError("corpus is empty")
	}

	cfg := fitConfig{normalizer: textnorm.New()}
	for _, o := range opts {
		o(&cfg)
	}

	docs := make([][]string, len(items))
	df := make(map[string]int)
	for i := range items {
		tokens := cfg.normalizer.Normalize(items[i].Text())
		docs[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, domain.NewBuildError("corpus has no indexable terms")
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	vocab := newVocabulary(terms)

	n := float64(len(items))
	weights := make([]float64, vocab.Len())
	for i, t := range vocab.terms {
		weights[i] = IDF(n, df[t])
	}

	s := &Space{
		normalizer: cfg.normalizer,
		items:      append([]catalog.Item(nil), items...),
		vocab:      vocab,
		weights:    weights,
	}
	s.vectors = make([]Vector, len(docs))
	for i, tokens := range docs {
		s.vectors[i] = s.weigh(tokens)
	}
	s.fingerprint = s.computeFingerprint()
	return s, nil
}

// IDF returns the smoothed inverse document frequency ln((n+1)/(df+1)) + 1.
func IDF(n float64, df int) float64 {
	return math.Log((n+1)/(float64(df)+1)) + 1
}

// Embed maps a query into the space. Unknown terms are dropped, so an empty
// or fully out-of-vocabulary query yields the zero vector.
func (s *Space) Embed(query string) Vector {
	return s.weigh(s.normalizer.Normalize(query))
}

// weigh turns a token stream into a raw tf x idf vector, L2-normalized.
func (s *Space) weigh(tokens []string) Vector {
	tf := make(map[int]float64, len(tokens))
	for _, tok := range tokens {
		if idx, ok := s.vocab.Index(tok); ok {
			tf[idx]++
		}
	}
	for idx, count := range tf {
		tf[idx] = count * s.weights[idx]
	}
	return newVector(s.vocab.Len(), tf)
}

// Len returns the corpus size.
func (s *Space) Len() int { return len(s.items) }

// Dim returns the vocabulary size.
func (s *Space) Dim() int { return s.vocab.Len() }

// Vocabulary returns the frozen vocabulary.
func (s *Space) Vocabulary() Vocabulary { return s.vocab }

// Weights returns a copy of the idf weights in vocabulary order.
func (s *Space) Weights() []float64 {
	out := make([]float64, len(s.weights))
	copy(out, s.weights)
	return out
}

// Weight returns the idf of term and whether the term is known.
func (s *Space) Weight(term string) (float64, bool) {
	idx, ok := s.vocab.Index(term)
	if !ok {
		return 0, false
	}
	return s.weights[idx], true
}

// Items returns a copy of the corpus in fit order.
func (s *Space) Items() []catalog.Item {
	return append([]catalog.Item(nil), s.items...)
}

// Item returns the corpus item at index i.
func (s *Space) Item(i int) catalog.Item { return s.items[i] }

// Vector returns the item vector at index i.
func (s *Space) Vector(i int) Vector { return s.vectors[i] }

// Vectors returns the item vectors in corpus order. Vectors share no mutable state.
func (s *Space) Vectors() []Vector {
	out := make([]Vector, len(s.vectors))
	copy(out, s.vectors)
	return out
}

// Normalizer returns the normalizer the space was fitted with.
func (s *Space) Normalizer() *textnorm.Normalizer { return s.normalizer }

// Fingerprint identifies the fitted content. Two spaces fitted from identical
// corpora with identical settings share a fingerprint.
func (s *Space) Fingerprint() string { return s.fingerprint }

func (s *Space) computeFingerprint() string {
	h := sha256.New()
	var buf [8]byte
	for i, t := range s.vocab.terms {
		_, _ = h.Write([]byte(t))
		_, _ = h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(s.weights[i]))
		_, _ = h.Write(buf[:])
	}
	for i := range s.items {
		_, _ = h.Write([]byte(s.items[i].ID()))
		_, _ = h.Write([]byte{0})
	}
	if s.normalizer.StopWordsEnabled() {
		_, _ = h.Write([]byte{1})
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}
