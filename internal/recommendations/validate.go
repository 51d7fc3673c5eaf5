package recommendations

import (
	"encoding/json"
	"fmt"
	"strings"

	"compliance-backend/internal/shared/metrics"
	"compliance-backend/internal/shared/telemetry"
)

// FieldError is one structural or business-rule violation.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Message
}

// Report is the outcome of validating a batch.
type Report struct {
	Kept    []Recommendation
	Dropped int
	Issues  []FieldError
}

// Partial reports whether validation removed entries from the batch.
func (r Report) Partial() bool {
	return r.Dropped > 0
}

// Err returns ErrNoValidRecommendations when nothing survived.
func (r Report) Err() error {
	if len(r.Kept) == 0 {
		return fmt.Errorf("%w: %d dropped", ErrNoValidRecommendations, r.Dropped)
	}
	return nil
}

// Warnings renders the issues for API responses.
func (r Report) Warnings() []string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.Issues)+1)
	out = append(out, fmt.Sprintf("%d recommendations dropped", r.Dropped))
	for _, issue := range r.Issues {
		out = append(out, issue.String())
	}
	return out
}

var (
	validPriorities = map[Priority]bool{
		PriorityCritical: true,
		PriorityHigh:     true,
		PriorityMedium:   true,
		PriorityLow:      true,
	}
	validTimeFrames = map[TimeFrame]bool{
		TimeFrameImmediate: true,
		TimeFrameShortTerm: true,
		TimeFrameLongTerm:  true,
	}
	validDifficulties = map[Difficulty]bool{
		DifficultyEasy:     true,
		DifficultyModerate: true,
		DifficultyComplex:  true,
	}
)

// ValidateBatch runs both passes over raw decoded service output.
// Offending items are dropped and logged; the rest are kept in order.
// A fallback key in the output is ignored: only the parse fallback sets it.
func ValidateBatch(items []any) Report {
	return validateItems(items, false)
}

func validateItems(items []any, keepFallback bool) Report {
	report := Report{Kept: make([]Recommendation, 0, len(items))}
	for i, item := range items {
		path := fmt.Sprintf("recommendations[%d]", i)
		rec, issues, pass := validateItem(item, path, keepFallback)
		if len(issues) > 0 {
			report.Dropped++
			report.Issues = append(report.Issues, issues...)
			metrics.AddDropped(pass, 1)
			telemetry.Warn("recommendation.dropped", map[string]any{
				"path":   path,
				"pass":   pass,
				"issues": len(issues),
				"first":  issues[0].String(),
			})
			continue
		}
		report.Kept = append(report.Kept, rec)
	}
	return report
}

// ValidateTyped re-validates already typed recommendations, such as those
// posted with an export request.
func ValidateTyped(recs []Recommendation) Report {
	items := make([]any, 0, len(recs))
	for _, rec := range recs {
		raw, err := toMap(rec)
		if err != nil {
			items = append(items, nil)
			continue
		}
		items = append(items, raw)
	}
	return validateItems(items, true)
}

const (
	passStructural = "structural"
	passBusiness   = "business"
)

func validateItem(item any, path string, keepFallback bool) (Recommendation, []FieldError, string) {
	obj, ok := item.(map[string]any)
	if !ok {
		return Recommendation{}, []FieldError{{Path: path, Message: "must be an object"}}, passStructural
	}
	if issues := CheckStructure(obj, path); len(issues) > 0 {
		return Recommendation{}, issues, passStructural
	}
	rec, err := fromMap(obj)
	if err != nil {
		return Recommendation{}, []FieldError{{Path: path, Message: err.Error()}}, passStructural
	}
	if !keepFallback {
		rec.Fallback = false
	}
	if issues := CheckBusinessRules(rec, path); len(issues) > 0 {
		return Recommendation{}, issues, passBusiness
	}
	return rec, nil, ""
}

// CheckStructure verifies presence and primitive shape of every field and
// clamps numeric impact fields to [0,100] in place.
func CheckStructure(obj map[string]any, path string) []FieldError {
	c := checker{}

	if v, ok := obj["id"]; ok && v != nil {
		if _, ok := v.(string); !ok {
			c.add(path+".id", "must be a string")
		}
	}
	c.requireString(obj, path, "title", true)
	c.requireString(obj, path, "description", true)

	if s, ok := c.requireString(obj, path, "priority", true); ok {
		normalized := Priority(strings.ToLower(strings.TrimSpace(s)))
		if !validPriorities[normalized] {
			c.add(path+".priority", fmt.Sprintf("must be one of critical, high, medium, low; got %q", s))
		} else {
			obj["priority"] = string(normalized)
		}
	}
	if s, ok := c.requireString(obj, path, "timeFrame", true); ok {
		normalized := TimeFrame(strings.ToLower(strings.TrimSpace(s)))
		if !validTimeFrames[normalized] {
			c.add(path+".timeFrame", fmt.Sprintf("must be one of immediate, short_term, long_term; got %q", s))
		} else {
			obj["timeFrame"] = string(normalized)
		}
	}

	if impact, ok := c.requireObject(obj, path, "impact"); ok {
		impactPath := path + ".impact"
		for _, key := range []string{"energyEfficiency", "performance", "compliance"} {
			c.requirePercent(impact, impactPath, key)
		}
		if details, ok := c.requireObject(impact, impactPath, "details"); ok {
			for _, key := range []string{"energyEfficiency", "performance", "compliance"} {
				c.requireString(details, impactPath+".details", key, false)
			}
		}
	}

	if impl, ok := c.requireObject(obj, path, "implementation"); ok {
		implPath := path + ".implementation"
		if s, ok := c.requireString(impl, implPath, "difficulty", true); ok {
			normalized := Difficulty(strings.ToLower(strings.TrimSpace(s)))
			if !validDifficulties[normalized] {
				c.add(implPath+".difficulty", fmt.Sprintf("must be one of easy, moderate, complex; got %q", s))
			} else {
				impl["difficulty"] = string(normalized)
			}
		}
		c.requireString(impl, implPath, "estimatedCost", false)
		c.requireString(impl, implPath, "timeframe", false)
		c.requireStringArray(impl, implPath, "prerequisites")
	}

	if dq, ok := c.requireObject(obj, path, "dataQuality"); ok {
		dqPath := path + ".dataQuality"
		c.requirePercent(dq, dqPath, "completeness")
		if _, present := dq["confidence"]; present {
			c.requirePercent(dq, dqPath, "confidence")
		}
		if v, present := dq["source"]; present && v != nil {
			if _, ok := v.(string); !ok {
				c.add(dqPath+".source", "must be a string")
			}
		}
	}

	if v, present := obj["progress"]; present && v != nil {
		c.requirePercent(obj, path, "progress")
	}

	if v, present := obj["alternatives"]; present && v != nil {
		list, ok := v.([]any)
		if !ok {
			c.add(path+".alternatives", "must be an array")
		} else {
			for i, alt := range list {
				altPath := fmt.Sprintf("%s.alternatives[%d]", path, i)
				altObj, ok := alt.(map[string]any)
				if !ok {
					c.add(altPath, "must be an object")
					continue
				}
				c.requireString(altObj, altPath, "title", true)
			}
		}
	}

	return c.issues
}

// CheckBusinessRules enforces cross-field consistency.
func CheckBusinessRules(rec Recommendation, path string) []FieldError {
	var issues []FieldError
	if rec.Priority == PriorityCritical && rec.TimeFrame != TimeFrameImmediate {
		issues = append(issues, FieldError{
			Path:    path + ".timeFrame",
			Message: fmt.Sprintf("critical priority requires immediate time frame; got %q", rec.TimeFrame),
		})
	}
	dims := []struct {
		name    string
		value   float64
		details string
	}{
		{"energyEfficiency", rec.Impact.EnergyEfficiency, rec.Impact.Details.EnergyEfficiency},
		{"performance", rec.Impact.Performance, rec.Impact.Details.Performance},
		{"compliance", rec.Impact.Compliance, rec.Impact.Details.Compliance},
	}
	for _, dim := range dims {
		if dim.value > 0 && strings.TrimSpace(dim.details) == "" {
			issues = append(issues, FieldError{
				Path:    path + ".impact.details." + dim.name,
				Message: "required when impact is non-zero",
			})
		}
	}
	return issues
}

type checker struct {
	issues []FieldError
}

func (c *checker) add(path, message string) {
	c.issues = append(c.issues, FieldError{Path: path, Message: message})
}

func (c *checker) requireString(obj map[string]any, path, key string, nonEmpty bool) (string, bool) {
	v, present := obj[key]
	if !present || v == nil {
		c.add(path+"."+key, "is required")
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		c.add(path+"."+key, "must be a string")
		return "", false
	}
	if nonEmpty && strings.TrimSpace(s) == "" {
		c.add(path+"."+key, "must not be empty")
		return "", false
	}
	return s, true
}

func (c *checker) requireObject(obj map[string]any, path, key string) (map[string]any, bool) {
	v, present := obj[key]
	if !present || v == nil {
		c.add(path+"."+key, "is required")
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		c.add(path+"."+key, "must be an object")
		return nil, false
	}
	return m, true
}

func (c *checker) requirePercent(obj map[string]any, path, key string) {
	v, present := obj[key]
	if !present || v == nil {
		c.add(path+"."+key, "is required")
		return
	}
	n, ok := toFloat(v)
	if !ok {
		c.add(path+"."+key, "must be a number")
		return
	}
	obj[key] = clampPercent(n)
}

func (c *checker) requireStringArray(obj map[string]any, path, key string) {
	v, present := obj[key]
	if !present || v == nil {
		obj[key] = []any{}
		return
	}
	list, ok := v.([]any)
	if !ok {
		c.add(path+"."+key, "must be an array of strings")
		return
	}
	for i, item := range list {
		if _, ok := item.(string); !ok {
			c.add(fmt.Sprintf("%s.%s[%d]", path, key, i), "must be a string")
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func toMap(rec Recommendation) (map[string]any, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromMap(obj map[string]any) (Recommendation, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return Recommendation{}, err
	}
	var rec Recommendation
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Recommendation{}, fmt.Errorf("decode: %w", err)
	}
	return rec, nil
}
