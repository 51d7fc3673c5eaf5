package audit

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the conformity status recorded for a question.
type Response string

const (
	ResponseConforme    Response = "conforme"
	ResponseNonConforme Response = "non-conforme"
)

// Question is one answered (or pending) audit question.
type Question struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Group    string    `json:"group"`
	Response *Response `json:"response"`
	Comment  string    `json:"comment,omitempty"`
}

// Answered reports whether the respondent picked a conformity status.
func (q Question) Answered() bool {
	return q.Response != nil && (*q.Response == ResponseConforme || *q.Response == ResponseNonConforme)
}

// Conforme reports whether the question was answered as compliant.
func (q Question) Conforme() bool {
	return q.Response != nil && *q.Response == ResponseConforme
}

// UnmarshalJSON accepts null, "" and the two conformity literals.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("response must be a string: %w", err)
	}
	switch Response(strings.ToLower(strings.TrimSpace(raw))) {
	case ResponseConforme:
		*r = ResponseConforme
	case ResponseNonConforme, "non_conforme", "nonconforme":
		*r = ResponseNonConforme
	case "":
		*r = ""
	default:
		return fmt.Errorf("unknown response %q", raw)
	}
	return nil
}

// ClientInfo describes the audited organisation.
type ClientInfo struct {
	Name     string  `json:"name"`
	Industry string  `json:"industry,omitempty"`
	Sector   string  `json:"sector,omitempty"`
	Size     string  `json:"size,omitempty"`
	Region   string  `json:"region,omitempty"`
	Contact  string  `json:"contact,omitempty"`
	Address  string  `json:"address,omitempty"`
	Budget   float64 `json:"budget,omitempty"`
}

// Context is the audit payload forwarded to the generative service.
type Context struct {
	AuditType    string      `json:"auditType"`
	AuditSubtype string      `json:"auditSubtype,omitempty"`
	Client       ClientInfo  `json:"clientInfo"`
	Questions    []Question  `json:"questions,omitempty"`
	Scores       []ScoreData `json:"scores,omitempty"`
	GlobalScore  *ScoreData  `json:"globalScore,omitempty"`
	Date         string      `json:"date,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// Validate checks the minimum context needed before calling the service.
func (c *Context) Validate() error {
	if c == nil {
		return fmt.Errorf("auditData is required")
	}
	if strings.TrimSpace(c.AuditType) == "" {
		return fmt.Errorf("auditData.auditType is required")
	}
	if strings.TrimSpace(c.Client.Name) == "" {
		return fmt.Errorf("auditData.clientInfo.name is required")
	}
	if len(c.Questions) == 0 && len(c.Scores) == 0 {
		return fmt.Errorf("auditData must include questions or scores")
	}
	for i, q := range c.Questions {
		if strings.TrimSpace(q.ID) == "" {
			return fmt.Errorf("auditData.questions[%d].id is required", i)
		}
	}
	return nil
}

// WithScores returns a copy with scores computed from the questions when absent.
func (c Context) WithScores() Context {
	if len(c.Scores) > 0 || len(c.Questions) == 0 {
		return c
	}
	summary := Summarize(c.Questions)
	c.Scores = summary.Groups
	global := summary.Global
	c.GlobalScore = &global
	return c
}

// NonConformities lists answered questions marked non-conforme.
func (c Context) NonConformities() []Question {
	out := make([]Question, 0)
	for _, q := range c.Questions {
		if q.Answered() && !q.Conforme() {
			out = append(out, q)
		}
	}
	return out
}
