package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/shared/server/respond"
)

// Handler exposes the scoring engine over HTTP.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches scoring routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/scores", h.score)
}

type scoreRequest struct {
	Questions []Question `json:"questions"`
	Group     string     `json:"group,omitempty"`
}

type scoreResponse struct {
	Summary
	Group *ScoreData `json:"group,omitempty"`
}

func (h *Handler) score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body: "+err.Error(), nil)
		return
	}
	resp := scoreResponse{Summary: Summarize(req.Questions)}
	if req.Group != "" {
		group := Score(req.Questions, req.Group)
		resp.Group = &group
	}
	respond.OK(c, resp)
}
