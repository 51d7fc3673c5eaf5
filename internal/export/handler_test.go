package export

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-backend/internal/recommendations"
	"compliance-backend/internal/shared/server/respond"
	localstore "compliance-backend/internal/shared/storage/object/local"
)

func newTestRouter(o *Orchestrator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(o).RegisterRoutes(r.Group("/api"))
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerExportDocument(t *testing.T) {
	r := newTestRouter(newTestOrchestrator())

	rec := postJSON(t, r, "/api/export/document", sampleExport())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, ContentTypeDOCX, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Audit-Pro_Rapport_TGBT_Societe-Generale-d-Energie_14022026.docx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "0", rec.Header().Get("X-Recommendations-Dropped"))
	assert.Empty(t, rec.Header().Get("X-Artifact-Key"))
	assert.Contains(t, readZipParts(t, rec.Body.Bytes()), "word/document.xml")
}

func TestHandlerExportSpreadsheetArchives(t *testing.T) {
	o := newTestOrchestrator()
	o.Store = localstore.New(t.TempDir())
	o.Archive = true
	r := newTestRouter(o)

	rec := postJSON(t, r, "/api/export/spreadsheet", sampleExport())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Artifact-Key"))
}

func TestHandlerExportErrors(t *testing.T) {
	invalid := sampleExport()
	for i := range invalid.Recommendations {
		invalid.Recommendations[i].Priority = recommendations.PriorityCritical
		invalid.Recommendations[i].TimeFrame = recommendations.TimeFrameLongTerm
	}
	missingID := sampleExport()
	missingID.Questions[0].ID = ""

	tests := []struct {
		name     string
		body     any
		wantCode int
		wantErr  string
		stage    string
	}{
		{name: "no recommendations", body: ExportData{}, wantCode: http.StatusBadRequest, wantErr: ErrorCodeValidation},
		{name: "invalid question", body: missingID, wantCode: http.StatusBadRequest, wantErr: ErrorCodeValidation, stage: "scoring"},
		{name: "nothing valid", body: invalid, wantCode: http.StatusUnprocessableEntity, wantErr: ErrorCodeNoValid, stage: "validation"},
	}

	r := newTestRouter(newTestOrchestrator())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, r, "/api/export/spreadsheet", tt.body)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			var body respond.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantErr, body.Code)
			if tt.stage != "" {
				details, ok := body.Details.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.stage, details["stage"])
			}
		})
	}
}
