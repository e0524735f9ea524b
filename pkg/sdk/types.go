package assessrank

import (
	"github.com/kailas-cloud/assessrank/internal/domain"
	"github.com/kailas-cloud/assessrank/internal/domain/catalog"
	domeval "github.com/kailas-cloud/assessrank/internal/domain/evaluation"
	"github.com/kailas-cloud/assessrank/internal/domain/search/result"
)

// Assessment is a catalog entry.
type Assessment struct {
	ID            string
	Name          string
	URL           string
	Description   string
	TestTypes     []string
	Duration      int // minutes, 0 when unknown
	RemoteSupport bool
	AdaptiveIRT   bool
}

// Recommendation is a ranked assessment with its cosine similarity in [0, 1].
type Recommendation struct {
	Assessment
	Score float64
}

// Case is a labeled evaluation query. Set exactly one of RelevantIDs or
// RelevantNames; a case with neither is evaluated against an empty relevant set.
type Case struct {
	Query         string
	RelevantIDs   []string
	RelevantNames []string
}

// CaseReport holds the per-query outcome of an evaluation.
type CaseReport struct {
	Query            string
	Relevant         []string
	Retrieved        []string
	Hits             int
	Recall           float64
	AveragePrecision float64
}

// Report aggregates an evaluation run at a single cutoff.
type Report struct {
	K          int
	MeanRecall float64
	MAP        float64
	Cases      []CaseReport
}

func (a *Assessment) toDomain() (catalog.Item, error) {
	return catalog.New(a.ID, a.Description, catalog.Attributes{
		Name:          a.Name,
		URL:           a.URL,
		TestTypes:     a.TestTypes,
		Duration:      a.Duration,
		RemoteSupport: a.RemoteSupport,
		AdaptiveIRT:   a.AdaptiveIRT,
	})
}

func assessmentFromDomain(it *catalog.Item) Assessment {
	return Assessment{
		ID:            it.ID(),
		Name:          it.Name(),
		URL:           it.URL(),
		Description:   it.Description(),
		TestTypes:     it.TestTypes(),
		Duration:      it.Duration(),
		RemoteSupport: it.RemoteSupport(),
		AdaptiveIRT:   it.AdaptiveIRT(),
	}
}

func recommendationsFromDomain(results []result.Result) []Recommendation {
	out := make([]Recommendation, len(results))
	for i := range results {
		it := results[i].Item()
		out[i] = Recommendation{
			Assessment: assessmentFromDomain(&it),
			Score:      results[i].Score(),
		}
	}
	return out
}

func (c *Case) toDomain() (domeval.Case, error) {
	if len(c.RelevantIDs) > 0 && len(c.RelevantNames) > 0 {
		return domeval.Case{}, domain.InvalidArgument("case %q sets both relevant IDs and names", c.Query)
	}
	if len(c.RelevantNames) > 0 {
		return domeval.NewCase(c.Query, c.RelevantNames, domeval.MatchName)
	}
	return domeval.NewCase(c.Query, c.RelevantIDs, domeval.MatchID)
}

func reportFromDomain(r *domeval.Report) Report {
	cases := r.Cases()
	out := Report{
		K:          r.K(),
		MeanRecall: r.MeanRecall(),
		MAP:        r.MAP(),
		Cases:      make([]CaseReport, len(cases)),
	}
	for i := range cases {
		out.Cases[i] = CaseReport{
			Query:            cases[i].Query(),
			Relevant:         cases[i].Relevant(),
			Retrieved:        cases[i].Retrieved(),
			Hits:             cases[i].Hits(),
			Recall:           cases[i].Recall(),
			AveragePrecision: cases[i].AveragePrecision(),
		}
	}
	return out
}
