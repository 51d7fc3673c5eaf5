package documents

import (
	"fmt"
	"strings"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/recommendations"
)

// Data sources a section template may name.
const (
	SourceClient          = "client"
	SourceMetadata        = "metadata"
	SourceScores          = "scores"
	SourceRecommendations = "recommendations"
	SourceDetails         = "recommendation_details"
	SourceImpacts         = "impacts"
	SourceMatrix          = "matrix"
	SourcePlanning        = "planning"
	SourceAlternatives    = "alternatives"
	SourceCosts           = "costs"
	SourceRegulatory      = "regulatory"
	SourcePrerequisites   = "prerequisites"
)

const emptyItem = "Aucun élément."

// Build fills a template from data. Nested template subsections beyond one
// level are ignored.
func Build(tmpl Template, data Data) []DocumentSection {
	data = data.WithDerived()
	out := make([]DocumentSection, 0, len(tmpl.Sections))
	for _, st := range tmpl.Sections {
		section := fill(st, data)
		for _, sub := range st.Subsections {
			section.Subsections = append(section.Subsections, fill(sub, data))
		}
		if len(section.Items) == 0 && len(section.Subsections) == 0 && strings.TrimSpace(section.Intro) == "" {
			section.Items = []string{emptyItem}
		}
		out = append(out, section)
	}
	return out
}

// BuildFor looks up docType and builds it. The boolean is false when the
// type was unknown and the default layout was used.
func (t Templates) BuildFor(docType string, data Data) (Template, []DocumentSection, bool) {
	tmpl, ok := t.Lookup(docType)
	return tmpl, Build(tmpl, data), ok
}

func fill(st SectionTemplate, data Data) DocumentSection {
	section := DocumentSection{Title: st.Title, Intro: st.Intro}
	items, subsections := resolve(st.Source, data)
	section.Items = append(section.Items, items...)
	section.Items = append(section.Items, st.Items...)
	section.Subsections = subsections
	if section.Items == nil {
		section.Items = []string{}
	}
	return section
}

func resolve(source string, data Data) ([]string, []DocumentSection) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}
	if name, arg, ok := strings.Cut(source, ":"); ok && name == SourceRecommendations {
		return recommendationItems(filterByPriority(data.Recommendations, arg)), nil
	}
	switch source {
	case SourceClient:
		return clientItems(data.Client), nil
	case SourceMetadata:
		return metadataItems(data.Metadata), nil
	case SourceScores:
		return scoreItems(data.Global, data.Scores), nil
	case SourceRecommendations:
		return recommendationItems(data.Recommendations), nil
	case SourceDetails:
		return nil, detailSections(data.Recommendations)
	case SourceImpacts:
		return impactItems(data.Impacts), nil
	case SourceMatrix:
		return matrixItems(data.Matrix), nil
	case SourcePlanning:
		return planningItems(data.Planning), nil
	case SourceAlternatives:
		return alternativeItems(data.Recommendations), nil
	case SourceCosts:
		return costItems(data.Recommendations), nil
	case SourceRegulatory:
		return regulatoryItems(data.Recommendations), nil
	case SourcePrerequisites:
		return prerequisiteItems(data.Recommendations), nil
	default:
		return nil, nil
	}
}

func labeled(label, value string) string {
	return label + " : " + value
}

func clientItems(c audit.ClientInfo) []string {
	pairs := []struct{ label, value string }{
		{"Client", c.Name},
		{"Secteur d'activité", c.Industry},
		{"Secteur", c.Sector},
		{"Taille", c.Size},
		{"Région", c.Region},
		{"Contact", c.Contact},
		{"Adresse", c.Address},
	}
	out := make([]string, 0, len(pairs)+1)
	for _, p := range pairs {
		if v := strings.TrimSpace(p.value); v != "" {
			out = append(out, labeled(p.label, v))
		}
	}
	if c.Budget > 0 {
		out = append(out, labeled("Budget", fmt.Sprintf("%.0f EUR", c.Budget)))
	}
	return out
}

func metadataItems(m Metadata) []string {
	pairs := []struct{ label, value string }{
		{"Type d'audit", m.AuditType},
		{"Sous-type", m.AuditSubtype},
		{"Date", m.Date},
		{"Auteur", m.Author},
		{"Version", m.Version},
		{"Référence", m.Reference},
	}
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if v := strings.TrimSpace(p.value); v != "" {
			out = append(out, labeled(p.label, v))
		}
	}
	return out
}

func formatScore(s audit.ScoreData) string {
	return fmt.Sprintf("%s : %.0f %% conforme, %.0f %% répondu", s.Nom, s.Score, s.Repondu)
}

func scoreItems(global *audit.ScoreData, scores []audit.ScoreData) []string {
	out := make([]string, 0, len(scores)+1)
	if global != nil {
		out = append(out, formatScore(*global))
	}
	for _, s := range scores {
		out = append(out, formatScore(s))
	}
	return out
}

var priorityLabels = map[recommendations.Priority]string{
	recommendations.PriorityCritical: "critique",
	recommendations.PriorityHigh:     "haute",
	recommendations.PriorityMedium:   "moyenne",
	recommendations.PriorityLow:      "basse",
}

var timeFrameLabels = map[recommendations.TimeFrame]string{
	recommendations.TimeFrameImmediate: "immédiat",
	recommendations.TimeFrameShortTerm: "court terme",
	recommendations.TimeFrameLongTerm:  "long terme",
}

// PriorityLabel returns the display label of a priority.
func PriorityLabel(p recommendations.Priority) string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// TimeFrameLabel returns the display label of a time frame.
func TimeFrameLabel(tf recommendations.TimeFrame) string {
	if label, ok := timeFrameLabels[tf]; ok {
		return label
	}
	return string(tf)
}

func filterByPriority(recs []recommendations.Recommendation, priority string) []recommendations.Recommendation {
	want := recommendations.Priority(strings.ToLower(strings.TrimSpace(priority)))
	out := make([]recommendations.Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.Priority == want {
			out = append(out, r)
		}
	}
	return out
}

func recommendationItems(recs []recommendations.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		item := fmt.Sprintf("%s [%s, %s]", r.Title, PriorityLabel(r.Priority), TimeFrameLabel(r.TimeFrame))
		if d := strings.TrimSpace(r.Description); d != "" {
			item += " : " + d
		}
		if r.Fallback {
			item += " (réponse non structurée, à vérifier)"
		}
		out = append(out, item)
	}
	return out
}

func detailSections(recs []recommendations.Recommendation) []DocumentSection {
	out := make([]DocumentSection, 0, len(recs))
	for i, r := range recs {
		items := []string{
			labeled("Priorité", PriorityLabel(r.Priority)),
			labeled("Échéance", TimeFrameLabel(r.TimeFrame)),
			fmt.Sprintf("Impacts : énergie %.0f %%, performance %.0f %%, conformité %.0f %%",
				r.Impact.EnergyEfficiency, r.Impact.Performance, r.Impact.Compliance),
		}
		for _, d := range []struct{ label, text string }{
			{"Efficacité énergétique", r.Impact.Details.EnergyEfficiency},
			{"Performance", r.Impact.Details.Performance},
			{"Conformité", r.Impact.Details.Compliance},
		} {
			if t := strings.TrimSpace(d.text); t != "" {
				items = append(items, labeled(d.label, t))
			}
		}
		if r.Implementation.Difficulty != "" {
			items = append(items, labeled("Difficulté", string(r.Implementation.Difficulty)))
		}
		if r.Implementation.Timeframe != "" {
			items = append(items, labeled("Délai de mise en oeuvre", r.Implementation.Timeframe))
		}
		if r.ClientContext != nil {
			items = append(items,
				labeled("Coût estimé", r.ClientContext.CostEstimate),
				labeled("Référence sectorielle", r.ClientContext.IndustryBenchmark),
				labeled("Impact réglementaire", r.ClientContext.RegulatoryImpact),
			)
		}
		if r.Metrics != nil {
			items = append(items,
				labeled("ROI estimé", fmt.Sprintf("%.1f", r.Metrics.ROI)),
				labeled("Complexité", r.Metrics.ImplementationComplexity),
				labeled("Risque", r.Metrics.RiskLevel),
			)
		}
		items = append(items, labeled("Qualité des données", fmt.Sprintf("%.0f %%", r.DataQuality.Completeness)))
		out = append(out, DocumentSection{
			Title: fmt.Sprintf("%d. %s", i+1, r.Title),
			Intro: r.Description,
			Items: items,
		})
	}
	return out
}

func impactItems(impacts []ImpactSummary) []string {
	out := make([]string, 0, len(impacts))
	for _, i := range impacts {
		item := fmt.Sprintf("%s : moyenne %.0f %%, maximum %.0f %%", i.Dimension, i.Average, i.Max)
		if c := strings.TrimSpace(i.Comment); c != "" {
			item += " (" + c + ")"
		}
		out = append(out, item)
	}
	return out
}

func matrixItems(matrix []MatrixEntry) []string {
	out := make([]string, 0, len(matrix))
	for _, m := range matrix {
		item := fmt.Sprintf("%s : priorité %s, effort %s, impact %.0f %%",
			m.Title, PriorityLabel(recommendations.Priority(m.Priority)), m.Effort, m.Impact)
		if m.Quadrant != "" {
			item += " - " + m.Quadrant
		}
		out = append(out, item)
	}
	return out
}

func planningItems(planning []PlanningPhase) []string {
	out := make([]string, 0, len(planning))
	for _, p := range planning {
		head := p.Phase
		if p.Duration != "" {
			head += " (" + p.Duration + ")"
		}
		out = append(out, head+" : "+strings.Join(p.Items, ", "))
	}
	return out
}

func alternativeItems(recs []recommendations.Recommendation) []string {
	out := make([]string, 0)
	for _, r := range recs {
		for _, alt := range r.Alternatives {
			item := r.Title + " / variante : " + alt.Title
			if alt.EstimatedCost != "" {
				item += " (" + alt.EstimatedCost + ")"
			}
			if alt.Description != "" {
				item += " - " + alt.Description
			}
			out = append(out, item)
		}
	}
	return out
}

func costItems(recs []recommendations.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		cost := strings.TrimSpace(r.Implementation.EstimatedCost)
		if r.ClientContext != nil && r.ClientContext.CostEstimate != "" {
			cost = r.ClientContext.CostEstimate
		}
		if cost == "" {
			cost = recommendations.NotAvailable
		}
		out = append(out, labeled(r.Title, cost))
	}
	return out
}

func regulatoryItems(recs []recommendations.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		if r.Impact.Compliance <= 0 {
			continue
		}
		text := strings.TrimSpace(r.Impact.Details.Compliance)
		if r.ClientContext != nil && r.ClientContext.RegulatoryImpact != "" && r.ClientContext.RegulatoryImpact != recommendations.NotAvailable {
			text = r.ClientContext.RegulatoryImpact + " - " + text
		}
		out = append(out, labeled(r.Title, text))
	}
	return out
}

func prerequisiteItems(recs []recommendations.Recommendation) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range recs {
		for _, p := range r.Implementation.Prerequisites {
			p = strings.TrimSpace(p)
			key := strings.ToLower(p)
			if p == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}
