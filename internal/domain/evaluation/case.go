package evaluation

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/assessrank/internal/domain"
	"github.com/kailas-cloud/assessrank/internal/domain/catalog"
)

// MatchField selects which item attribute a case's relevance keys refer to.
type MatchField string

// Match field constants.
const (
	MatchID   MatchField = "id"
	MatchName MatchField = "name"
)

// IsValid reports whether f is a known match field.
func (f MatchField) IsValid() bool {
	return f == MatchID || f == MatchName
}

// Key returns the attribute of item that f refers to.
func (f MatchField) Key(item *catalog.Item) string {
	if f == MatchName {
		return item.Name()
	}
	return item.ID()
}

// Case is a labeled query: the query text and the keys of the items a good
// ranking should retrieve (immutable value object).
type Case struct {
	query    string
	relevant []string
	match    MatchField
}

// NewCase validates and creates a Case. Relevance keys are deduplicated and
// blank keys dropped; an empty relevant set is allowed and scores zero.
// An empty match field defaults to MatchID.
func NewCase(query string, relevant []string, match MatchField) (Case, error) {
	if strings.TrimSpace(query) == "" {
		return Case{}, domain.InvalidArgument("evaluation case query is required")
	}
	if match == "" {
		match = MatchID
	}
	if !match.IsValid() {
		return Case{}, domain.InvalidArgument("unknown match field %q", match)
	}

	return Case{
		query:    query,
		relevant: uniqueKeys(relevant),
		match:    match,
	}, nil
}

// Query returns the query text.
func (c *Case) Query() string { return c.query }

// Relevant returns a copy of the relevance keys, sorted.
func (c *Case) Relevant() []string {
	out := make([]string, len(c.relevant))
	copy(out, c.relevant)
	return out
}

// Match returns the item attribute the keys refer to.
func (c *Case) Match() MatchField {
	if c.match == "" {
		return MatchID
	}
	return c.match
}

func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
