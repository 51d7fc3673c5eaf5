package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/documents"
	"compliance-backend/internal/recommendations"
)

const (
	recommendationsSheet = "Recommandations"
	scoresSheet          = "Scores"
)

var recommendationColumns = []struct {
	header string
	width  float64
}{
	{"Titre", 40},
	{"Description", 80},
	{"Priorité", 14},
	{"Efficacité énergétique (%)", 16},
	{"Performance (%)", 16},
	{"Conformité (%)", 16},
	{"Progression (%)", 16},
}

var scoreColumns = []string{"Domaine", "Score (%)", "Taux de réponse (%)"}

// sheetInput is the format-specific input of the XLSX serializer.
type sheetInput struct {
	Title           string
	Author          string
	Created         time.Time
	Recommendations []recommendations.Recommendation
	Global          *audit.ScoreData
	Scores          []audit.ScoreData
}

func renderXLSX(in sheetInput) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recommendationsSheet); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("body style: %w", err)
	}

	if err := writeRecommendationsSheet(f, in.Recommendations, headerStyle, bodyStyle); err != nil {
		return nil, err
	}
	if in.Global != nil || len(in.Scores) > 0 {
		if err := writeScoresSheet(f, in.Global, in.Scores, headerStyle); err != nil {
			return nil, err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   in.Title,
		Creator: in.Author,
		Created: in.Created.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRecommendationsSheet(f *excelize.File, recs []recommendations.Recommendation, headerStyle, bodyStyle int) error {
	header := make([]any, 0, len(recommendationColumns))
	for i, col := range recommendationColumns {
		header = append(header, col.header)
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(recommendationsSheet, name, name, col.width); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(recommendationsSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(recommendationColumns))
	if err := f.SetCellStyle(recommendationsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, rec := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			rec.Title,
			rec.Description,
			documents.PriorityLabel(rec.Priority),
			rec.Impact.EnergyEfficiency,
			rec.Impact.Performance,
			rec.Impact.Compliance,
			rec.Progress,
		}
		if err := f.SetSheetRow(recommendationsSheet, cell, &row); err != nil {
			return err
		}
	}
	if len(recs) > 0 {
		last := fmt.Sprintf("%s%d", lastCol, len(recs)+1)
		if err := f.SetCellStyle(recommendationsSheet, "A2", last, bodyStyle); err != nil {
			return err
		}
	}

	return f.SetPanes(recommendationsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeScoresSheet(f *excelize.File, global *audit.ScoreData, scores []audit.ScoreData, headerStyle int) error {
	if _, err := f.NewSheet(scoresSheet); err != nil {
		return err
	}
	header := make([]any, 0, len(scoreColumns))
	for _, h := range scoreColumns {
		header = append(header, h)
	}
	if err := f.SetSheetRow(scoresSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(scoresSheet, "A1", "C1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(scoresSheet, "A", "A", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(scoresSheet, "B", "C", 18); err != nil {
		return err
	}

	rows := make([]audit.ScoreData, 0, len(scores)+1)
	if global != nil {
		rows = append(rows, *global)
	}
	rows = append(rows, scores...)
	for i, s := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{s.Nom, s.Score, s.Repondu}
		if err := f.SetSheetRow(scoresSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
