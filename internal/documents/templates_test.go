package documents

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/recommendations"
)

func TestDefaultTemplatesCoverDocumentTypes(t *testing.T) {
	templates, err := DefaultTemplates()
	require.NoError(t, err)
	assert.Equal(t, []string{TypeAuditReport, TypeSpecifications, TypeTechnicalOffer}, templates.Types())
	for _, name := range templates.Types() {
		tmpl, ok := templates.Lookup(name)
		require.True(t, ok)
		assert.NotEmpty(t, tmpl.Artifact)
		assert.NotEmpty(t, tmpl.Sections)
	}
}

func TestLookupUnknownTypeFallsBack(t *testing.T) {
	templates, err := DefaultTemplates()
	require.NoError(t, err)

	tmpl, sections, ok := templates.BuildFor("invoice", sampleData())

	assert.False(t, ok)
	assert.Equal(t, "Document", tmpl.Artifact)
	require.Len(t, sections, 1)
	assert.Equal(t, "Recommandations", sections[0].Title)
	assert.Len(t, sections[0].Items, 2)
}

func TestLoadTemplatesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	content := `
custom:
  title: Custom
  artifact: Custom
  sections:
    - title: Intro
      items: [one, two]
    - title: Recos
      source: recommendations
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	templates, err := LoadTemplates(path)
	require.NoError(t, err)

	_, sections, ok := templates.BuildFor("CUSTOM", sampleData())
	require.True(t, ok)
	want := []DocumentSection{
		{Title: "Intro", Items: []string{"one", "two"}},
		{Title: "Recos", Items: []string{
			"Mettre à la terre [critique, immédiat] : liaison équipotentielle",
			"Changer l'éclairage [basse, long terme] : LED",
		}},
	}
	if diff := cmp.Diff(want, sections); diff != "" {
		t.Fatalf("unexpected sections (-want +got):\n%s", diff)
	}
}

func TestLoadTemplatesRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty.yaml":     "",
		"nosection.yaml": "x:\n  title: X\n",
		"notitle.yaml":   "x:\n  sections:\n    - source: client\n",
		"broken.yaml":    "x: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := LoadTemplates(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadTemplates(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildAuditReport(t *testing.T) {
	templates, err := DefaultTemplates()
	require.NoError(t, err)

	tmpl, sections, ok := templates.BuildFor(TypeAuditReport, sampleData())
	require.True(t, ok)
	assert.Equal(t, "Rapport", tmpl.Artifact)

	byTitle := map[string]DocumentSection{}
	for _, s := range sections {
		byTitle[s.Title] = s
	}

	client := byTitle["Informations client"]
	assert.Contains(t, client.Items, "Client : Acme")

	scores := byTitle["Synthèse des scores"]
	require.Len(t, scores.Items, 2)
	assert.Equal(t, "Global : 50 % conforme, 100 % répondu", scores.Items[0])

	prio := byTitle["Recommandations prioritaires"]
	require.Len(t, prio.Subsections, 4)
	assert.Len(t, prio.Subsections[0].Items, 1)
	assert.Empty(t, prio.Subsections[1].Items)

	details := byTitle["Détail des recommandations"]
	require.Len(t, details.Subsections, 2)
	assert.True(t, strings.HasPrefix(details.Subsections[0].Title, "1. "))

	planning := byTitle["Planning de mise en oeuvre"]
	require.Len(t, planning.Items, 2)
	assert.True(t, strings.HasPrefix(planning.Items[0], "Phase 1"))

	nodes := Assemble(sections)
	assert.Equal(t, len(sections), Count(nodes, NodeHeading))
}

func TestDerivedValues(t *testing.T) {
	data := sampleData()
	impacts := DeriveImpacts(data.Recommendations)
	require.Len(t, impacts, 3)
	assert.Equal(t, 50.0, impacts[0].Average)
	assert.Equal(t, 80.0, impacts[0].Max)

	matrix := DeriveMatrix(data.Recommendations)
	require.Len(t, matrix, 2)
	assert.Equal(t, "Gains rapides", matrix[0].Quadrant)
	assert.Equal(t, "Améliorations continues", matrix[1].Quadrant)

	assert.Empty(t, DeriveImpacts(nil))
	assert.Empty(t, DerivePlanning(nil))
}

func sampleData() Data {
	global := audit.ScoreData{Score: 50, Repondu: 100, Nom: "Global"}
	return Data{
		Client:   audit.ClientInfo{Name: "Acme", Industry: "industrie"},
		Metadata: Metadata{DocumentType: TypeAuditReport, AuditType: "electrique", Date: "2026-10-19"},
		Global:   &global,
		Scores:   []audit.ScoreData{{Score: 50, Repondu: 100, Nom: "Electrique"}},
		Recommendations: []recommendations.Recommendation{
			{
				ID:          "c",
				Title:       "Mettre à la terre",
				Description: "liaison équipotentielle",
				Priority:    recommendations.PriorityCritical,
				TimeFrame:   recommendations.TimeFrameImmediate,
				Impact: recommendations.Impact{
					EnergyEfficiency: 20, Performance: 60, Compliance: 90,
				},
				Implementation: recommendations.Implementation{Difficulty: recommendations.DifficultyModerate},
			},
			{
				ID:          "l",
				Title:       "Changer l'éclairage",
				Description: "LED",
				Priority:    recommendations.PriorityLow,
				TimeFrame:   recommendations.TimeFrameLongTerm,
				Impact: recommendations.Impact{
					EnergyEfficiency: 80, Performance: 80, Compliance: 80,
				},
				Implementation: recommendations.Implementation{Difficulty: recommendations.DifficultyEasy},
			},
		},
	}
}
