package recommendations

import (
	"sort"

	"github.com/montanaflynn/stats"
)

var priorityWeights = map[Priority]float64{
	PriorityCritical: 4,
	PriorityHigh:     3,
	PriorityMedium:   2,
	PriorityLow:      1,
}

// ImpactScore is the mean of the three impact dimensions.
func ImpactScore(rec Recommendation) float64 {
	mean, err := stats.Mean([]float64{
		rec.Impact.EnergyEfficiency,
		rec.Impact.Performance,
		rec.Impact.Compliance,
	})
	if err != nil {
		return 0
	}
	return mean
}

// PriorityScore is the priority weight times the impact score.
func PriorityScore(rec Recommendation) float64 {
	return priorityWeights[rec.Priority] * ImpactScore(rec)
}

// Prioritize returns a copy sorted by descending PriorityScore.
// Equal scores keep their input order.
func Prioritize(recs []Recommendation) []Recommendation {
	type scored struct {
		rec   Recommendation
		score float64
	}
	items := make([]scored, len(recs))
	for i, rec := range recs {
		items[i] = scored{rec: rec, score: PriorityScore(rec)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
	out := make([]Recommendation, len(items))
	for i, item := range items {
		out[i] = item.rec
	}
	return out
}
