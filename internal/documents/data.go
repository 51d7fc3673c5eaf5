package documents

import (
	"compliance-backend/internal/audit"
	"compliance-backend/internal/recommendations"
)

// Metadata describes the document being produced.
type Metadata struct {
	DocumentType string `json:"documentType"`
	AuditType    string `json:"auditType"`
	AuditSubtype string `json:"auditSubtype,omitempty"`
	Date         string `json:"date,omitempty"`
	Author       string `json:"author,omitempty"`
	Version      string `json:"version,omitempty"`
	Brand        string `json:"brand,omitempty"`
	Reference    string `json:"reference,omitempty"`
}

// ImpactSummary is the aggregated impact of the recommendation set on one dimension.
type ImpactSummary struct {
	Dimension string  `json:"dimension"`
	Average   float64 `json:"average"`
	Max       float64 `json:"max"`
	Comment   string  `json:"comment,omitempty"`
}

// MatrixEntry places one recommendation on the priority / effort grid.
type MatrixEntry struct {
	Title    string  `json:"title"`
	Priority string  `json:"priority"`
	Effort   string  `json:"effort"`
	Impact   float64 `json:"impact"`
	Quadrant string  `json:"quadrant,omitempty"`
}

// PlanningPhase groups recommendations delivered in the same horizon.
type PlanningPhase struct {
	Phase     string   `json:"phase"`
	TimeFrame string   `json:"timeFrame"`
	Duration  string   `json:"duration,omitempty"`
	Items     []string `json:"items"`
}

// Data is everything a template can draw from.
type Data struct {
	Client          audit.ClientInfo
	Metadata        Metadata
	Global          *audit.ScoreData
	Scores          []audit.ScoreData
	Recommendations []recommendations.Recommendation
	Impacts         []ImpactSummary
	Matrix          []MatrixEntry
	Planning        []PlanningPhase
}
