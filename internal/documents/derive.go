package documents

import (
	"github.com/montanaflynn/stats"

	"compliance-backend/internal/recommendations"
)

var impactDimensions = []struct {
	label string
	get   func(recommendations.Recommendation) float64
}{
	{"Efficacité énergétique", func(r recommendations.Recommendation) float64 { return r.Impact.EnergyEfficiency }},
	{"Performance", func(r recommendations.Recommendation) float64 { return r.Impact.Performance }},
	{"Conformité", func(r recommendations.Recommendation) float64 { return r.Impact.Compliance }},
}

// DeriveImpacts aggregates each impact dimension across the set.
func DeriveImpacts(recs []recommendations.Recommendation) []ImpactSummary {
	if len(recs) == 0 {
		return nil
	}
	out := make([]ImpactSummary, 0, len(impactDimensions))
	for _, dim := range impactDimensions {
		values := make([]float64, 0, len(recs))
		for _, r := range recs {
			values = append(values, dim.get(r))
		}
		mean, _ := stats.Mean(values)
		mean, _ = stats.Round(mean, 0)
		peak, _ := stats.Max(values)
		out = append(out, ImpactSummary{Dimension: dim.label, Average: mean, Max: peak})
	}
	return out
}

// DeriveMatrix places every recommendation on the priority / effort grid.
func DeriveMatrix(recs []recommendations.Recommendation) []MatrixEntry {
	out := make([]MatrixEntry, 0, len(recs))
	for _, r := range recs {
		impact := recommendations.ImpactScore(r)
		rounded, _ := stats.Round(impact, 0)
		out = append(out, MatrixEntry{
			Title:    r.Title,
			Priority: string(r.Priority),
			Effort:   string(r.Implementation.Difficulty),
			Impact:   rounded,
			Quadrant: quadrant(r),
		})
	}
	return out
}

func quadrant(r recommendations.Recommendation) string {
	urgent := r.Priority == recommendations.PriorityCritical || r.Priority == recommendations.PriorityHigh
	heavy := r.Implementation.Difficulty == recommendations.DifficultyComplex
	switch {
	case urgent && !heavy:
		return "Gains rapides"
	case urgent && heavy:
		return "Projets majeurs"
	case !urgent && !heavy:
		return "Améliorations continues"
	default:
		return "À planifier"
	}
}

var planningPhases = []struct {
	timeFrame recommendations.TimeFrame
	phase     string
	duration  string
}{
	{recommendations.TimeFrameImmediate, "Phase 1 - Actions immédiates", "0 à 1 mois"},
	{recommendations.TimeFrameShortTerm, "Phase 2 - Court terme", "1 à 6 mois"},
	{recommendations.TimeFrameLongTerm, "Phase 3 - Long terme", "6 à 24 mois"},
}

// DerivePlanning groups recommendations by time frame, keeping input order.
func DerivePlanning(recs []recommendations.Recommendation) []PlanningPhase {
	out := make([]PlanningPhase, 0, len(planningPhases))
	for _, p := range planningPhases {
		items := make([]string, 0)
		for _, r := range recs {
			if r.TimeFrame == p.timeFrame {
				items = append(items, r.Title)
			}
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, PlanningPhase{
			Phase:     p.phase,
			TimeFrame: string(p.timeFrame),
			Duration:  p.duration,
			Items:     items,
		})
	}
	return out
}

// WithDerived fills impacts, matrix and planning when the caller left them empty.
func (d Data) WithDerived() Data {
	if len(d.Impacts) == 0 {
		d.Impacts = DeriveImpacts(d.Recommendations)
	}
	if len(d.Matrix) == 0 {
		d.Matrix = DeriveMatrix(d.Recommendations)
	}
	if len(d.Planning) == 0 {
		d.Planning = DerivePlanning(d.Recommendations)
	}
	return d
}
