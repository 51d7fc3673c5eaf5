package export

import (
	"compliance-backend/internal/audit"
	"compliance-backend/internal/documents"
	"compliance-backend/internal/recommendations"
)

// Content types of the produced artifacts.
const (
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Format names used in filenames and metrics.
const (
	FormatDOCX = "docx"
	FormatXLSX = "xlsx"
)

// ExportData bundles everything one export call needs. It is built per
// request and never shared between calls.
type ExportData struct {
	Recommendations []recommendations.Recommendation `json:"recommendations"`
	ClientInfo      audit.ClientInfo                  `json:"clientInfo"`
	Metadata        documents.Metadata                `json:"metadata"`
	Impacts         []documents.ImpactSummary         `json:"impacts,omitempty"`
	Matrix          []documents.MatrixEntry           `json:"matrix,omitempty"`
	Planning        []documents.PlanningPhase         `json:"planning,omitempty"`
	Questions       []audit.Question                  `json:"questions,omitempty"`
	Scores          []audit.ScoreData                 `json:"scores,omitempty"`
	GlobalScore     *audit.ScoreData                  `json:"globalScore,omitempty"`
}

// Artifact is a fully serialized export.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	Dropped     int
	Warnings    []string
	StorageKey  string
}

func (d ExportData) auditContext() audit.Context {
	return audit.Context{
		AuditType:    d.Metadata.AuditType,
		AuditSubtype: d.Metadata.AuditSubtype,
		Client:       d.ClientInfo,
		Questions:    d.Questions,
		Scores:       d.Scores,
		GlobalScore:  d.GlobalScore,
		Date:         d.Metadata.Date,
	}
}
