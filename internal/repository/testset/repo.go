// Package testset loads labeled evaluation queries from JSON.
//
// Each entry names its relevant items either by catalog name
// ("expected_assessments") or by catalog id ("relevant_ids").
package testset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kailas-cloud/assessrank/internal/domain"
	"github.com/kailas-cloud/assessrank/internal/domain/evaluation"
)

type caseRow struct {
	Query               string   `json:"query"`
	ExpectedAssessments []string `json:"expected_assessments"`
	RelevantIDs         []string `json:"relevant_ids"`
}

func (r *caseRow) toDomain() (evaluation.Case, error) {
	switch {
	case r.RelevantIDs != nil && r.ExpectedAssessments != nil:
		return evaluation.Case{}, domain.InvalidArgument("set either relevant_ids or expected_assessments, not both")
	case r.RelevantIDs != nil:
		return evaluation.NewCase(r.Query, r.RelevantIDs, evaluation.MatchID)
	default:
		return evaluation.NewCase(r.Query, r.ExpectedAssessments, evaluation.MatchName)
	}
}

// Repo reads evaluation cases from a JSON array file.
type Repo struct {
	path string
}

// New creates a test-set repository for the given file.
func New(path string) *Repo {
	return &Repo{path: path}
}

// List reads and validates every case in file order.
func (r *Repo) List(ctx context.Context) ([]evaluation.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open test set: %w", err)
	}
	defer f.Close()

	cases, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load test set %s: %w", r.path, err)
	}
	return cases, nil
}

// Decode parses a JSON array of labeled queries.
func Decode(rd io.Reader) ([]evaluation.Case, error) {
	var rows []caseRow
	if err := json.NewDecoder(rd).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode test set: %w", err)
	}

	cases := make([]evaluation.Case, 0, len(rows))
	for i := range rows {
		c, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		cases = append(cases, c)
	}
	return cases, nil
}
