package export

import (
	"strings"
	"time"

	"compliance-backend/internal/shared/util"
)

var metadataDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"02012006",
}

var fileDateLayouts = map[string]string{
	FormatDOCX: "02012006",
	FormatXLSX: "20060102",
}

// FileName builds "<Brand>_<Artifact>_<AuditSubtype>_<ClientName>_<date>.<ext>".
// Empty components are skipped; the audit type stands in for a missing subtype.
func FileName(brand, artifact, auditType, auditSubtype, clientName, rawDate, format string, now time.Time) string {
	subtype := auditSubtype
	if strings.TrimSpace(subtype) == "" {
		subtype = auditType
	}
	date := documentDate(rawDate, now).Format(fileDateLayouts[format])

	parts := make([]string, 0, 5)
	for _, raw := range []string{brand, artifact, subtype, clientName} {
		if part := util.FileNameComponent(raw); part != "" {
			parts = append(parts, part)
		}
	}
	parts = append(parts, date)
	return strings.Join(parts, "_") + "." + format
}

func documentDate(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range metadataDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return now
}
