package recommendations

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	errNoJSONObject           = errors.New("no json object in response")
	errMissingRecommendations = errors.New("missing recommendations key")
)

// Candidates is the parsed but not yet validated service output.
type Candidates struct {
	Items    []any
	Analysis Analysis
	Context  AnalysisContext
	Fallback bool
	Raw      string
}

func parseResponse(text string) (Candidates, error) {
	top, err := decodeResponseObject(text)
	if err != nil {
		return Candidates{}, err
	}
	var items []any
	if err := json.Unmarshal(top["recommendations"], &items); err != nil {
		return Candidates{}, fmt.Errorf("recommendations must be an array: %w", err)
	}

	out := Candidates{Items: items, Raw: text}
	// analysis and context are informative only
	if raw, ok := top["analysis"]; ok {
		_ = json.Unmarshal(raw, &out.Analysis)
	}
	if raw, ok := top["context"]; ok {
		_ = json.Unmarshal(raw, &out.Context)
	}
	return out, nil
}

// Validate runs ValidateBatch and marks what survives a parse fallback.
func (c Candidates) Validate() Report {
	report := ValidateBatch(c.Items)
	if c.Fallback {
		for i := range report.Kept {
			report.Kept[i].Fallback = true
		}
	}
	return report
}

// decodeResponseObject tolerates code fences and prose around the object.
// Each opening brace is tried in turn; the first object that decodes and
// carries a recommendations key wins.
func decodeResponseObject(text string) (map[string]json.RawMessage, error) {
	trimmed := stripCodeFence(text)
	var firstErr error
	for i := 0; i < len(trimmed); i++ {
		next := strings.IndexByte(trimmed[i:], '{')
		if next < 0 {
			break
		}
		i += next
		var top map[string]json.RawMessage
		if err := json.NewDecoder(strings.NewReader(trimmed[i:])).Decode(&top); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("unmarshal: %w", err)
			}
			continue
		}
		if _, ok := top["recommendations"]; ok {
			return top, nil
		}
		if firstErr == nil {
			firstErr = errMissingRecommendations
		}
	}
	if firstErr == nil {
		return nil, errNoJSONObject
	}
	return nil, firstErr
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```JSON")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return trimmed
}

const fallbackCompleteness = 70

// fallbackCandidates keeps the raw response as a single degraded recommendation.
func fallbackCandidates(text string) Candidates {
	rec := Recommendation{
		Title:       "Recommandation générale",
		Description: strings.TrimSpace(text),
		Priority:    PriorityMedium,
		TimeFrame:   TimeFrameShortTerm,
		Implementation: Implementation{
			Difficulty:    DifficultyModerate,
			Prerequisites: []string{},
		},
		DataQuality: DataQuality{
			Completeness: fallbackCompleteness,
			Source:       "unstructured_response",
		},
		Fallback: true,
	}
	item, err := toMap(rec)
	if err != nil {
		item = nil
	}
	return Candidates{
		Items: []any{item},
		Analysis: Analysis{
			Summary: "The generated response could not be parsed; raw output kept as a single recommendation.",
		},
		Fallback: true,
		Raw:      text,
	}
}
