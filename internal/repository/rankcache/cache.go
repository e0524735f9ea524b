// Package rankcache stores ranked result lists in a key-value store.
//
// Entries are keyed by the vector space fingerprint, so a refit with a
// different catalog or vocabulary never reads a stale ranking.
package rankcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/assessrank/internal/db"
	"github.com/kailas-cloud/assessrank/internal/domain"
	"github.com/kailas-cloud/assessrank/internal/domain/search/result"
)

var cacheKeyPrefix = domain.KeyPrefix + "rank:"

// entrySize is 4 bytes of corpus index plus 8 bytes of float64 score.
const entrySize = 12

// store is the consumer interface for the rank cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache caches ranked entries in a key-value store.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a rank cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"error"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns cached entries for the ranking identified by fingerprint, query and k.
// Any failure is reported as a miss.
func (c *Cache) Get(ctx context.Context, fingerprint, query string, k int) ([]result.Ref, bool) {
	key := Key(fingerprint, query, k)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			c.inc("miss")
		} else {
			c.inc("error")
			c.logger.Warn("Failed to get cached ranking", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	entries, err := decode(data)
	if err != nil {
		c.inc("error")
		c.logger.Warn("Failed to parse cached ranking", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	c.inc("hit")
	return entries, true
}

// Put stores entries. Write failures are logged and swallowed.
func (c *Cache) Put(ctx context.Context, fingerprint, query string, k int, entries []result.Ref) {
	key := Key(fingerprint, query, k)
	if err := c.store.SetWithTTL(ctx, key, encode(entries), c.ttl); err != nil {
		c.logger.Warn("Failed to cache ranking", zap.String("key", key), zap.Error(err))
	}
}

// Key builds the store key for a ranking.
func Key(fingerprint, query string, k int) string {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(k)))
	return cacheKeyPrefix + fingerprint + ":" + hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func encode(entries []result.Ref) []byte {
	buf := make([]byte, len(entries)*entrySize)
	for i, e := range entries {
		off := i * entrySize
		binary.LittleEndian.PutUint32(buf[off:], uint32(e.Index))
		binary.LittleEndian.PutUint64(buf[off+4:], math.Float64bits(e.Score))
	}
	return buf
}

func decode(data []byte) ([]result.Ref, error) {
	if len(data)%entrySize != 0 {
		return nil, fmt.Errorf("invalid rank cache data: len=%d (not multiple of %d)", len(data), entrySize)
	}
	entries := make([]result.Ref, len(data)/entrySize)
	for i := range entries {
		off := i * entrySize
		entries[i] = result.Ref{
			Index: int(binary.LittleEndian.Uint32(data[off:])),
			Score: math.Float64frombits(binary.LittleEndian.Uint64(data[off+4:])),
		}
	}
	return entries, nil
}
