package audit

import (
	"math"
	"strings"
)

// GlobalScoreName labels the score computed across every group.
const GlobalScoreName = "Global"

// ScoreData is the per-group (or global) projection of the answers.
type ScoreData struct {
	Score   float64 `json:"score"`
	Repondu float64 `json:"repondu"`
	Nom     string  `json:"nom"`
}

// Summary bundles the global score, per-group scores and raw counts.
type Summary struct {
	Global      ScoreData   `json:"global"`
	Groups      []ScoreData `json:"groups"`
	Total       int         `json:"total"`
	Answered    int         `json:"answered"`
	Conforme    int         `json:"conforme"`
	NonConforme int         `json:"nonConforme"`
}

// Score computes the conformity score and answer rate for a group.
// An empty group selects every question.
func Score(questions []Question, group string) ScoreData {
	group = strings.TrimSpace(group)
	name := group
	if name == "" {
		name = GlobalScoreName
	}

	var total, answered, conforme int
	for _, q := range questions {
		if group != "" && strings.TrimSpace(q.Group) != group {
			continue
		}
		total++
		if !q.Answered() {
			continue
		}
		answered++
		if q.Conforme() {
			conforme++
		}
	}

	return ScoreData{
		Score:   percent(conforme, answered),
		Repondu: percent(answered, total),
		Nom:     name,
	}
}

// ScoreByGroup scores every group in first-appearance order.
func ScoreByGroup(questions []Question) []ScoreData {
	groups := Groups(questions)
	out := make([]ScoreData, 0, len(groups))
	for _, g := range groups {
		out = append(out, Score(questions, g))
	}
	return out
}

// Groups returns distinct non-empty group names in first-appearance order.
func Groups(questions []Question) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, q := range questions {
		g := strings.TrimSpace(q.Group)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}

// Summarize computes global and per-group scores in one pass over the list.
func Summarize(questions []Question) Summary {
	s := Summary{
		Global: Score(questions, ""),
		Groups: ScoreByGroup(questions),
		Total:  len(questions),
	}
	for _, q := range questions {
		if !q.Answered() {
			continue
		}
		s.Answered++
		if q.Conforme() {
			s.Conforme++
		} else {
			s.NonConforme++
		}
	}
	return s
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part) / float64(whole) * 100)
}
