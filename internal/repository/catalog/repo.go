// Package catalog loads the assessment catalog from its JSON file.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kailas-cloud/assessrank/internal/domain"
	domcat "github.com/kailas-cloud/assessrank/internal/domain/catalog"
)

// Repo reads catalog items from a JSON array file.
type Repo struct {
	path string
}

// New creates a catalog repository for the given file.
func New(path string) *Repo {
	return &Repo{path: path}
}

// Path returns the catalog file path.
func (r *Repo) Path() string { return r.path }

// List reads and validates every item in file order.
func (r *Repo) List(ctx context.Context) ([]domcat.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	items, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", r.path, err)
	}
	return items, nil
}

// Decode parses a JSON array of catalog entries.
// Entries must carry a non-blank, unique id.
func Decode(rd io.Reader) ([]domcat.Item, error) {
	var rows []itemRow
	if err := json.NewDecoder(rd).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	items := make([]domcat.Item, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i := range rows {
		item, err := rows[i].toDomain()
		if err != nil {
			return nil, domain.InvalidArgument("entry %d: %v", i, err)
		}
		if prev, dup := seen[item.ID()]; dup {
			return nil, domain.InvalidArgument("entry %d: duplicate id %q (first at entry %d)", i, item.ID(), prev)
		}
		seen[item.ID()] = i
		items = append(items, item)
	}
	return items, nil
}
