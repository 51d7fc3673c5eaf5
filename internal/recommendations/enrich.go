package recommendations

import (
	"context"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"compliance-backend/internal/audit"
)

const enrichConcurrency = 4

// Enrich attaches client context and metrics to every recommendation.
// Lookups without data yield NotAvailable; enrichment never fails.
// Output order matches input order.
func Enrich(ctx context.Context, recs []Recommendation, auditCtx audit.Context) []Recommendation {
	out := make([]Recommendation, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i := range recs {
		g.Go(func() error {
			rec := recs[i]
			if gctx.Err() != nil {
				out[i] = withNeutralEnrichment(rec)
				return nil
			}
			out[i] = enrichOne(rec, auditCtx)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func enrichOne(rec Recommendation, auditCtx audit.Context) Recommendation {
	rec.ClientContext = &ClientContext{
		IndustryBenchmark: lookupBenchmark(auditCtx.Client),
		RegulatoryImpact:  lookupRegulatoryImpact(auditCtx.AuditType, rec.Impact.Compliance),
		CostEstimate:      lookupCost(rec.Implementation, auditCtx.Client),
	}
	rec.Metrics = &Metrics{
		ROI:                      estimateROI(rec),
		ImplementationComplexity: classifyComplexity(rec.Implementation),
		RiskLevel:                classifyRisk(rec),
	}
	return rec
}

func withNeutralEnrichment(rec Recommendation) Recommendation {
	rec.ClientContext = &ClientContext{
		IndustryBenchmark: NotAvailable,
		RegulatoryImpact:  NotAvailable,
		CostEstimate:      NotAvailable,
	}
	rec.Metrics = &Metrics{
		ImplementationComplexity: NotAvailable,
		RiskLevel:                NotAvailable,
	}
	return rec
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func lookupBenchmark(client audit.ClientInfo) string {
	for _, key := range []string{client.Industry, client.Sector} {
		if v, ok := industryBenchmarks[normalizeKey(key)]; ok {
			return v
		}
	}
	return NotAvailable
}

func lookupRegulatoryImpact(auditType string, compliance float64) string {
	frameworks, ok := regulatoryFrameworks[normalizeKey(auditType)]
	if !ok {
		return NotAvailable
	}
	switch {
	case compliance >= 70:
		return "Impact fort sur " + frameworks
	case compliance >= 40:
		return "Impact modéré sur " + frameworks
	case compliance > 0:
		return "Impact faible sur " + frameworks
	default:
		return "Aucun impact réglementaire identifié (" + frameworks + ")"
	}
}

func lookupCost(impl Implementation, client audit.ClientInfo) string {
	if cost := strings.TrimSpace(impl.EstimatedCost); cost != "" {
		return cost
	}
	base, ok := costByDifficulty[impl.Difficulty]
	if !ok {
		return NotAvailable
	}
	multiplier, ok := sizeMultipliers[normalizeKey(client.Size)]
	if !ok {
		multiplier = 1
	}
	low := base.Low * multiplier
	high := base.High * multiplier
	estimate := fmt.Sprintf("%s - %s EUR", formatAmount(low), formatAmount(high))
	if client.Budget > 0 && low > client.Budget {
		estimate += " (au-delà du budget déclaré)"
	}
	return estimate
}

func formatAmount(value float64) string {
	digits := fmt.Sprintf("%.0f", value)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// estimateROI divides the mean impact by an effort factor derived from difficulty.
func estimateROI(rec Recommendation) float64 {
	mean, err := stats.Mean([]float64{
		rec.Impact.EnergyEfficiency,
		rec.Impact.Performance,
		rec.Impact.Compliance,
	})
	if err != nil {
		return 0
	}
	factor, ok := difficultyFactors[rec.Implementation.Difficulty]
	if !ok {
		factor = difficultyFactors[DifficultyModerate]
	}
	roi, err := stats.Round(mean/factor, 1)
	if err != nil {
		return 0
	}
	return roi
}

func classifyComplexity(impl Implementation) string {
	prereqs := len(impl.Prerequisites)
	switch {
	case impl.Difficulty == DifficultyComplex || prereqs > 3:
		return "élevée"
	case impl.Difficulty == DifficultyEasy && prereqs <= 1:
		return "faible"
	case impl.Difficulty == "":
		return NotAvailable
	default:
		return "moyenne"
	}
}

func classifyRisk(rec Recommendation) string {
	switch {
	case rec.Priority == PriorityCritical:
		return "critique"
	case rec.Priority == PriorityHigh || rec.Impact.Compliance >= 70:
		return "élevé"
	case rec.Priority == PriorityMedium:
		return "modéré"
	case rec.Priority == PriorityLow:
		return "faible"
	default:
		return NotAvailable
	}
}
