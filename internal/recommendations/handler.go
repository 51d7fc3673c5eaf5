package recommendations

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/llm"
	"compliance-backend/internal/shared/server/middleware"
	"compliance-backend/internal/shared/server/respond"
)

// Handler exposes the generation pipeline over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches generation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	anthropic := append(append([]gin.HandlerFunc{}, mw...), h.generateWith("anthropic"))
	rg.POST("/anthropic/recommendations", anthropic...)
	generic := append(append([]gin.HandlerFunc{}, mw...), h.generateWith(""))
	rg.POST("/recommendations", generic...)
}

type generateRequest struct {
	AuditData *audit.Context `json:"auditData"`
}

type generateResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	Analysis        Analysis         `json:"analysis"`
	Context         AnalysisContext  `json:"context"`
	Partial         bool             `json:"partial"`
	Dropped         int              `json:"dropped"`
	Warnings        []string         `json:"warnings,omitempty"`
	Fallback        bool             `json:"fallback"`
}

func (h *Handler) generateWith(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid JSON body: "+err.Error(), nil)
			return
		}
		if req.AuditData == nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "auditData is required", nil)
			return
		}

		if provider != "" {
			c.Set(middleware.ProviderKey, provider)
		}
		result, err := h.Svc.Generate(c.Request.Context(), provider, *req.AuditData)
		if err != nil {
			writeError(c, err, result)
			return
		}

		respond.OK(c, generateResponse{
			Recommendations: result.Recommendations,
			Analysis:        result.Analysis,
			Context:         result.Context,
			Partial:         result.Partial,
			Dropped:         result.Dropped,
			Warnings:        result.Warnings,
			Fallback:        result.Fallback,
		})
	}
}

func writeError(c *gin.Context, err error, result GenerationResult) {
	var cfgErr *llm.ConfigError
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), nil)
	case errors.As(err, &cfgErr):
		respond.Error(c, http.StatusInternalServerError, ErrorCodeConfiguration, cfgErr.Error(), gin.H{"missing": cfgErr.Key})
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusInternalServerError, ErrorCodeConfiguration, err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, ErrorCodeTimeout, "recommendation generation timed out", gin.H{"attempts": result.Attempts})
	case errors.Is(err, ErrNoValidRecommendations):
		respond.Error(c, http.StatusBadGateway, ErrorCodeNoRecommendation, "all generated recommendations failed validation", gin.H{"dropped": result.Dropped, "warnings": result.Warnings})
	case errors.Is(err, ErrGenerationFailed):
		respond.Error(c, http.StatusBadGateway, ErrorCodeGenerationFailed, sanitizeError(err), gin.H{"attempts": result.Attempts})
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to generate recommendations", nil)
	}
}
