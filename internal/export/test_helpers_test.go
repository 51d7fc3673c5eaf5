package export

import (
	"context"
	"fmt"
	"time"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/documents"
	"compliance-backend/internal/llm"
	"compliance-backend/internal/recommendations"
)

var fixedNow = time.Date(2026, time.March, 7, 10, 30, 0, 0, time.UTC)

func newTestOrchestrator() *Orchestrator {
	templates, err := documents.DefaultTemplates()
	if err != nil {
		panic(err)
	}
	return &Orchestrator{
		Templates: templates,
		Brand:     "Audit Pro",
		Now:       func() time.Time { return fixedNow },
	}
}

func recommendation(id, title string, p recommendations.Priority, tf recommendations.TimeFrame, energy, perf, compliance float64) recommendations.Recommendation {
	return recommendations.Recommendation{
		ID:          id,
		Title:       title,
		Description: "Description " + title,
		Priority:    p,
		TimeFrame:   tf,
		Impact: recommendations.Impact{
			EnergyEfficiency: energy,
			Performance:      perf,
			Compliance:       compliance,
			Details: recommendations.ImpactDetails{
				EnergyEfficiency: "gain énergétique",
				Performance:      "disponibilité",
				Compliance:       "NF C 15-100",
			},
		},
		Implementation: recommendations.Implementation{
			Difficulty:    recommendations.DifficultyModerate,
			EstimatedCost: "5 000 EUR",
			Timeframe:     "1 mois",
			Prerequisites: []string{},
		},
		DataQuality: recommendations.DataQuality{Completeness: 90},
		Progress:    10,
	}
}

// sampleRecommendations is deliberately unordered.
func sampleRecommendations() []recommendations.Recommendation {
	return []recommendations.Recommendation{
		recommendation("rec-low", "Remplacer l'éclairage", recommendations.PriorityLow, recommendations.TimeFrameLongTerm, 80, 80, 80),
		recommendation("rec-critical", "Mettre à la terre le TGBT", recommendations.PriorityCritical, recommendations.TimeFrameImmediate, 20, 60, 90),
		recommendation("rec-high", "Étiqueter les départs", recommendations.PriorityHigh, recommendations.TimeFrameShortTerm, 30, 40, 50),
	}
}

func response(r audit.Response) *audit.Response {
	return &r
}

// sampleQuestions has 20 questions in one group, half of them conforme.
func sampleQuestions() []audit.Question {
	questions := make([]audit.Question, 0, 20)
	for i := 0; i < 20; i++ {
		status := audit.ResponseConforme
		if i%2 == 1 {
			status = audit.ResponseNonConforme
		}
		questions = append(questions, audit.Question{
			ID:       fmt.Sprintf("q%02d", i+1),
			Text:     fmt.Sprintf("Question %d", i+1),
			Group:    "Electrique",
			Response: response(status),
		})
	}
	return questions
}

func sampleExport() ExportData {
	return ExportData{
		Recommendations: sampleRecommendations(),
		ClientInfo:      audit.ClientInfo{Name: "Société Générale d'Énergie", Industry: "industrie", Size: "pme"},
		Metadata: documents.Metadata{
			DocumentType: documents.TypeAuditReport,
			AuditType:    "electrique",
			AuditSubtype: "TGBT",
			Date:         "2026-02-14",
			Author:       "J. Martin",
			Version:      "1.0",
		},
		Questions: sampleQuestions(),
	}
}

type cannedClient struct {
	text string
}

func (c cannedClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	return c.text, ctx.Err()
}

const threeRecommendationsJSON = `{"recommendations": [
  {"id": "rec-low", "title": "Remplacer l'éclairage", "description": "Passer en LED", "priority": "low", "timeFrame": "long_term",
   "impact": {"energyEfficiency": 80, "performance": 80, "compliance": 80,
     "details": {"energyEfficiency": "pertes", "performance": "éclairage", "compliance": "RT2012"}},
   "implementation": {"difficulty": "easy", "estimatedCost": "", "timeframe": "6 mois", "prerequisites": []},
   "dataQuality": {"completeness": 90}},
  {"id": "rec-critical", "title": "Mettre à la terre le TGBT", "description": "Liaison équipotentielle", "priority": "critical", "timeFrame": "immediate",
   "impact": {"energyEfficiency": 20, "performance": 60, "compliance": 90,
     "details": {"energyEfficiency": "faible", "performance": "continuité", "compliance": "NF C 15-100"}},
   "implementation": {"difficulty": "moderate", "estimatedCost": "8 000 EUR", "timeframe": "1 semaine", "prerequisites": ["coupure"]},
   "dataQuality": {"completeness": 95}},
  {"id": "rec-high", "title": "Étiqueter les départs", "description": "Repérage des circuits", "priority": "high", "timeFrame": "short_term",
   "impact": {"energyEfficiency": 30, "performance": 40, "compliance": 50,
     "details": {"energyEfficiency": "aucun", "performance": "maintenance", "compliance": "traçabilité"}},
   "implementation": {"difficulty": "easy", "estimatedCost": "500 EUR", "timeframe": "1 mois", "prerequisites": []},
   "dataQuality": {"completeness": 85}}
]}`
