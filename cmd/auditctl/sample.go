package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/documents"
	"compliance-backend/internal/export"
	"compliance-backend/internal/recommendations"
)

func newSampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Print a sample export request to use with the export command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), sampleExportData())
		},
	}
}

func sampleExportData() export.ExportData {
	conforme := audit.ResponseConforme
	nonConforme := audit.ResponseNonConforme
	questions := make([]audit.Question, 0, 8)
	for i := 0; i < 8; i++ {
		q := audit.Question{
			ID:    fmt.Sprintf("q%d", i+1),
			Text:  fmt.Sprintf("Point de contrôle %d", i+1),
			Group: []string{"Distribution", "Protection"}[i%2],
		}
		switch {
		case i < 5:
			q.Response = &conforme
		case i < 7:
			q.Response = &nonConforme
		}
		questions = append(questions, q)
	}

	return export.ExportData{
		ClientInfo: audit.ClientInfo{
			Name:     "Blue Harbor Logistique",
			Industry: "logistique",
			Size:     "eti",
			Region:   "Auvergne-Rhône-Alpes",
			Contact:  "Claire Dumas",
			Budget:   40000,
		},
		Metadata: documents.Metadata{
			DocumentType: documents.TypeAuditReport,
			AuditType:    "electrique",
			AuditSubtype: "TGBT",
			Date:         "2026-04-02",
			Author:       "Jordan Lee",
			Version:      "1.0",
		},
		Questions: questions,
		Recommendations: []recommendations.Recommendation{
			{
				ID:          "rec-1",
				Title:       "Remplacer les disjoncteurs différentiels défaillants",
				Description: "Deux DDR n'ont pas déclenché au test. Remplacement et essai sous 48 h.",
				Priority:    recommendations.PriorityCritical,
				TimeFrame:   recommendations.TimeFrameImmediate,
				Impact: recommendations.Impact{
					Performance: 40,
					Compliance:  95,
					Details: recommendations.ImpactDetails{
						Performance: "continuité de service des départs",
						Compliance:  "NF C 15-100 section 531",
					},
				},
				Implementation: recommendations.Implementation{
					Difficulty:    recommendations.DifficultyEasy,
					EstimatedCost: "1 200 EUR",
					Timeframe:     "2 jours",
					Prerequisites: []string{"consignation du TGBT"},
				},
				DataQuality: recommendations.DataQuality{Completeness: 90, Confidence: 85, Source: "audit"},
			},
			{
				ID:          "rec-2",
				Title:       "Installer un comptage divisionnaire",
				Description: "Suivre les consommations par zone pour cibler les dérives.",
				Priority:    recommendations.PriorityMedium,
				TimeFrame:   recommendations.TimeFrameShortTerm,
				Impact: recommendations.Impact{
					EnergyEfficiency: 60,
					Performance:      20,
					Details: recommendations.ImpactDetails{
						EnergyEfficiency: "détection des consommations anormales",
						Performance:      "pilotage de la maintenance",
					},
				},
				Implementation: recommendations.Implementation{
					Difficulty:    recommendations.DifficultyModerate,
					EstimatedCost: "9 000 EUR",
					Timeframe:     "3 mois",
					Prerequisites: []string{},
				},
				DataQuality: recommendations.DataQuality{Completeness: 75},
				Alternatives: []recommendations.Alternative{
					{Title: "Compteurs communicants du fournisseur", EstimatedCost: "3 000 EUR", Cons: []string{"granularité limitée"}},
				},
			},
		},
	}
}
