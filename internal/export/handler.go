package export

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/recommendations"
	"compliance-backend/internal/shared/server/middleware"
	"compliance-backend/internal/shared/server/respond"
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeNoValid    = "NO_VALID_RECOMMENDATIONS"
	ErrorCodeExport     = "EXPORT_FAILED"
)

// Handler exposes document and spreadsheet exports over HTTP.
type Handler struct {
	Orchestrator *Orchestrator
}

// NewHandler constructs a Handler.
func NewHandler(o *Orchestrator) *Handler {
	return &Handler{Orchestrator: o}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/export/document", h.exportWith(h.Orchestrator.ExportDocument))
	rg.POST("/export/spreadsheet", h.exportWith(h.Orchestrator.ExportSpreadsheet))
}

func (h *Handler) exportWith(export func(context.Context, ExportData) (Artifact, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExportData
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid JSON body: "+err.Error(), nil)
			return
		}
		if len(req.Recommendations) == 0 {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "recommendations are required", nil)
			return
		}

		artifact, err := export(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}

		if artifact.StorageKey != "" {
			c.Set(middleware.ArtifactKey, artifact.StorageKey)
			c.Header("X-Artifact-Key", artifact.StorageKey)
		}
		c.Header("X-Recommendations-Dropped", strconv.Itoa(artifact.Dropped))
		respond.Attachment(c, artifact.FileName, artifact.ContentType, artifact.Data)
	}
}

func writeError(c *gin.Context, err error) {
	var se *StageError
	stage := ""
	if errors.As(err, &se) {
		stage = string(se.Stage)
	}
	details := gin.H{"stage": stage}

	switch {
	case errors.Is(err, ErrInvalidExport):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, err.Error(), details)
	case errors.Is(err, recommendations.ErrNoValidRecommendations):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeNoValid, "no recommendation passed validation", details)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeExport, "export interrupted", details)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeExport, "export failed", details)
	}
}
