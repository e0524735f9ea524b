package evaluation

// CaseResult holds the metrics of one evaluated case.
type CaseResult struct {
	query            string
	relevant         []string
	retrieved        []string
	hits             int
	recall           float64
	averagePrecision float64
}

// NewCaseResult scores a ranked key list against the case at cutoff k.
func NewCaseResult(c *Case, retrieved []string, k int) CaseResult {
	top := append([]string(nil), topK(retrieved, k)...)
	relevant := c.Relevant()
	return CaseResult{
		query:            c.Query(),
		relevant:         relevant,
		retrieved:        top,
		hits:             countHits(top, toSet(relevant), k),
		recall:           RecallAtK(top, relevant, k),
		averagePrecision: AveragePrecisionAtK(top, relevant, k),
	}
}

// Query returns the case query.
func (r *CaseResult) Query() string { return r.query }

// Relevant returns the expected keys.
func (r *CaseResult) Relevant() []string { return append([]string(nil), r.relevant...) }

// Retrieved returns the top-k keys in rank order.
func (r *CaseResult) Retrieved() []string { return append([]string(nil), r.retrieved...) }

// Hits returns the number of distinct relevant keys within the top k.
func (r *CaseResult) Hits() int { return r.hits }

// Recall returns Recall@k.
func (r *CaseResult) Recall() float64 { return r.recall }

// AveragePrecision returns AP@k.
func (r *CaseResult) AveragePrecision() float64 { return r.averagePrecision }

// Report aggregates per-case metrics for a single cutoff k.
type Report struct {
	k          int
	cases      []CaseResult
	meanRecall float64
	mapK       float64
}

// NewReport computes MeanRecall@k and MAP@k as arithmetic means over cases.
// Both are 0 when there are no cases.
func NewReport(k int, cases []CaseResult) Report {
	r := Report{k: k, cases: append([]CaseResult(nil), cases...)}
	if len(cases) == 0 {
		return r
	}
	var recall, ap float64
	for i := range cases {
		recall += cases[i].recall
		ap += cases[i].averagePrecision
	}
	n := float64(len(cases))
	r.meanRecall = recall / n
	r.mapK = ap / n
	return r
}

// K returns the cutoff the report was computed at.
func (r *Report) K() int { return r.k }

// Len returns the number of evaluated cases.
func (r *Report) Len() int { return len(r.cases) }

// Cases returns the per-case results in input order.
func (r *Report) Cases() []CaseResult { return append([]CaseResult(nil), r.cases...) }

// MeanRecall returns the mean Recall@k.
func (r *Report) MeanRecall() float64 { return r.meanRecall }

// MAP returns MAP@k.
func (r *Report) MAP() float64 { return r.mapK }
