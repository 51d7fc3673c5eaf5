package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name      string
		brand     string
		artifact  string
		auditType string
		subtype   string
		client    string
		date      string
		format    string
		want      string
	}{
		{
			name:      "docx uses day first",
			brand:     "Audit Pro",
			artifact:  "Rapport",
			auditType: "electrique",
			subtype:   "TGBT",
			client:    "Acme",
			date:      "2026-02-14",
			format:    FormatDOCX,
			want:      "Audit-Pro_Rapport_TGBT_Acme_14022026.docx",
		},
		{
			name:      "xlsx uses year first",
			brand:     "Audit",
			artifact:  "Recommandations",
			auditType: "electrique",
			subtype:   "TGBT",
			client:    "Acme",
			date:      "14/02/2026",
			format:    FormatXLSX,
			want:      "Audit_Recommandations_TGBT_Acme_20260214.xlsx",
		},
		{
			name:      "audit type replaces missing subtype",
			brand:     "Audit",
			artifact:  "Rapport",
			auditType: "Sécurité incendie",
			client:    "Hôtel du Lac",
			date:      "",
			format:    FormatDOCX,
			want:      "Audit_Rapport_Securite-incendie_Hotel-du-Lac_07032026.docx",
		},
		{
			name:     "empty components are skipped",
			artifact: "Rapport",
			client:   "../etc/passwd",
			date:     "not a date",
			format:   FormatXLSX,
			want:     "Rapport_etc-passwd_20260307.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FileName(tt.brand, tt.artifact, tt.auditType, tt.subtype, tt.client, tt.date, tt.format, fixedNow)
			assert.Equal(t, tt.want, got)
		})
	}
}
