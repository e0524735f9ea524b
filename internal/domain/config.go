package domain

// KeyPrefix namespaces every key the service writes to the shared KV store.
const KeyPrefix = "assessrank:"

// RankingConfig holds ranking limits shared by the API and the SDK.
type RankingConfig struct {
	DefaultK int
	MaxK     int
	MinScore float64
}

// DefaultRankingConfig mirrors the public API contract: 5 results by default, at most 10.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		DefaultK: 5,
		MaxK:     10,
		MinScore: 0,
	}
}
