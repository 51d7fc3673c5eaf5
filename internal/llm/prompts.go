package llm

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"compliance-backend/internal/audit"
)

var (
	//go:embed prompts/recommendations_v1.txt
	recommendationsPromptV1 string
	//go:embed prompts/recommendations_schema.txt
	recommendationsSchema string
)

const (
	systemPromptRecommendations = "You are an infrastructure compliance auditor. Respond with a single JSON object only. No markdown. Never omit keys."
	defaultMaxTokens            = 4096
)

// RecommendationSchema returns the JSON shape the service must answer with.
func RecommendationSchema() string {
	return recommendationsSchema
}

// BuildRecommendationPrompt embeds the audit context and response schema into an instruction.
func BuildRecommendationPrompt(ctx audit.Context) (Request, error) {
	payload, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return Request{}, fmt.Errorf("marshal audit context: %w", err)
	}

	nonConformities := ctx.NonConformities()
	lines := make([]string, 0, len(nonConformities))
	for _, q := range nonConformities {
		line := "- [" + q.Group + "] " + strings.TrimSpace(q.Text)
		if c := strings.TrimSpace(q.Comment); c != "" {
			line += " (" + c + ")"
		}
		lines = append(lines, line)
	}
	summary := "none"
	if len(lines) > 0 {
		summary = strings.Join(lines, "\n")
	}

	prompt := strings.NewReplacer(
		"{{AUDIT_TYPE}}", ctx.AuditType,
		"{{CLIENT_NAME}}", ctx.Client.Name,
		"{{AUDIT_JSON}}", string(payload),
		"{{NON_CONFORMITIES}}", summary,
		"{{SCHEMA}}", recommendationsSchema,
	).Replace(recommendationsPromptV1)

	return Request{
		System:    systemPromptRecommendations,
		Prompt:    prompt,
		MaxTokens: defaultMaxTokens,
		JSON:      true,
	}, nil
}
