package optimizer

import (
	"sort"
)

// Results is the append-only collection a sweep produces. Insertion order is
// not significant; consumers rank explicitly through Best.
type Results struct {
	results []OptimizationResult
}

// NewResults creates an empty collection.
func NewResults() *Results {
	return &Results{}
}

func (r *Results) append(res OptimizationResult) {
	r.results = append(r.results, res)
}

// Len returns the number of collected results.
func (r *Results) Len() int {
	return len(r.results)
}

// All returns the collected results in insertion order.
func (r *Results) All() []OptimizationResult {
	out := make([]OptimizationResult, len(r.results))
	copy(out, r.results)
	return out
}

// Best returns up to topN results sorted descending by the named metric,
// ties broken by insertion order. Returns ErrUnknownMetric (wrapped) when
// the name matches no metric field.
func (r *Results) Best(metric string, topN int) ([]OptimizationResult, error) {
	ranked := r.All()
	if len(ranked) == 0 {
		// Still validate the metric name so callers catch typos early.
		if _, err := (OptimizationResult{}).Metrics.Field(metric); err != nil {
			return nil, err
		}
		return ranked, nil
	}

	if _, err := ranked[0].Metrics.Field(metric); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		vi, _ := ranked[i].Metrics.Field(metric)
		vj, _ := ranked[j].Metrics.Field(metric)
		return vi > vj
	})

	if topN > 0 && topN < len(ranked) {
		ranked = ranked[:topN]
	}
	return ranked, nil
}
