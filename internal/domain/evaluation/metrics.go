package evaluation

// RecallAtK returns |top-k retrieved ∩ relevant| / |relevant|.
// It is 0 when relevant is empty or k < 1.
func RecallAtK(retrieved, relevant []string, k int) float64 {
	rel := toSet(relevant)
	if len(rel) == 0 || k < 1 {
		return 0
	}
	return float64(countHits(retrieved, rel, k)) / float64(len(rel))
}

// AveragePrecisionAtK averages precision@i over the ranks i (1-based, i <= k)
// holding a relevant item, dividing by the number of relevant items found
// within k. It is 0 when nothing relevant is retrieved.
func AveragePrecisionAtK(retrieved, relevant []string, k int) float64 {
	rel := toSet(relevant)
	if len(rel) == 0 || k < 1 {
		return 0
	}

	seen := make(map[string]struct{}, len(rel))
	var hits int
	var sum float64
	for i, key := range topK(retrieved, k) {
		if _, ok := rel[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		hits++
		sum += float64(hits) / float64(i+1)
	}
	if hits == 0 {
		return 0
	}
	return sum / float64(hits)
}

func countHits(retrieved []string, rel map[string]struct{}, k int) int {
	found := make(map[string]struct{}, len(rel))
	for _, key := range topK(retrieved, k) {
		if _, ok := rel[key]; ok {
			found[key] = struct{}{}
		}
	}
	return len(found)
}

func topK(retrieved []string, k int) []string {
	if k < len(retrieved) {
		return retrieved[:k]
	}
	return retrieved
}

func toSet(keys []string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
