package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"compliance-backend/internal/documents"
	"compliance-backend/internal/recommendations"
	"compliance-backend/internal/shared/metrics"
	"compliance-backend/internal/shared/storage/object"
	"compliance-backend/internal/shared/telemetry"
)

const (
	defaultDocumentType = documents.TypeAuditReport
	spreadsheetArtifact = "Recommandations"
)

// Orchestrator drives an export from raw request data to a serialized artifact.
type Orchestrator struct {
	Templates documents.Templates
	Brand     string
	Store     object.ObjectStore
	Archive   bool
	Now       func() time.Time
}

// prepared is the validated, enriched and prioritized state shared by both formats.
type prepared struct {
	data    documents.Data
	dropped int
	issues  []string
	now     time.Time
}

// ExportDocument produces the DOCX rendition of the export.
func (o *Orchestrator) ExportDocument(ctx context.Context, in ExportData) (Artifact, error) {
	return o.run(ctx, FormatDOCX, in, func(p prepared) (Artifact, error) {
		docType := strings.TrimSpace(p.data.Metadata.DocumentType)
		if docType == "" {
			docType = defaultDocumentType
		}
		tmpl, sections, known := o.Templates.BuildFor(docType, p.data)
		if !known {
			telemetry.Warn("export.unknown_document_type", map[string]any{"documentType": docType})
		}
		nodes := documents.Assemble(sections)
		if len(nodes) == 0 {
			return Artifact{}, stageErr(StageAssembly, fmt.Errorf("document %q produced no content", docType))
		}

		data, err := renderDOCX(docxPage{
			Title:      tmpl.Title,
			TitleLines: titleLines(p.data),
			Header:     headerText(p.data, tmpl.Title),
			Author:     p.data.Metadata.Author,
			Created:    p.now,
			Nodes:      nodes,
		})
		if err != nil {
			return Artifact{}, stageErr(StageSerialization, err)
		}
		meta := p.data.Metadata
		return Artifact{
			FileName:    FileName(meta.Brand, tmpl.Artifact, meta.AuditType, meta.AuditSubtype, p.data.Client.Name, meta.Date, FormatDOCX, p.now),
			ContentType: ContentTypeDOCX,
			Data:        data,
		}, nil
	})
}

// ExportSpreadsheet produces the XLSX rendition of the export.
func (o *Orchestrator) ExportSpreadsheet(ctx context.Context, in ExportData) (Artifact, error) {
	return o.run(ctx, FormatXLSX, in, func(p prepared) (Artifact, error) {
		if len(p.data.Recommendations) == 0 {
			return Artifact{}, stageErr(StageAssembly, fmt.Errorf("no rows to write"))
		}
		meta := p.data.Metadata
		data, err := renderXLSX(sheetInput{
			Title:           headerText(p.data, spreadsheetArtifact),
			Author:          meta.Author,
			Created:         p.now,
			Recommendations: p.data.Recommendations,
			Global:          p.data.Global,
			Scores:          p.data.Scores,
		})
		if err != nil {
			return Artifact{}, stageErr(StageSerialization, err)
		}
		return Artifact{
			FileName:    FileName(meta.Brand, spreadsheetArtifact, meta.AuditType, meta.AuditSubtype, p.data.Client.Name, meta.Date, FormatXLSX, p.now),
			ContentType: ContentTypeXLSX,
			Data:        data,
		}, nil
	})
}

func (o *Orchestrator) run(ctx context.Context, format string, in ExportData, serialize func(prepared) (Artifact, error)) (Artifact, error) {
	start := time.Now()
	artifact, err := o.export(ctx, in, serialize)
	metrics.ObserveExportDuration(format, time.Since(start))
	if err != nil {
		outcome := "error"
		var se *StageError
		if errors.As(err, &se) {
			outcome = string(se.Stage)
		}
		metrics.IncExport(format, outcome)
		telemetry.Error("export.failed", map[string]any{
			"format": format,
			"error":  err.Error(),
		})
		return Artifact{}, err
	}
	metrics.IncExport(format, "ok")
	telemetry.Info("export.complete", map[string]any{
		"format":     format,
		"fileName":   artifact.FileName,
		"sizeBytes":  len(artifact.Data),
		"dropped":    artifact.Dropped,
		"storageKey": artifact.StorageKey,
	})
	return artifact, nil
}

func (o *Orchestrator) export(ctx context.Context, in ExportData, serialize func(prepared) (Artifact, error)) (Artifact, error) {
	p, err := o.prepare(ctx, in)
	if err != nil {
		return Artifact{}, err
	}
	artifact, err := serialize(p)
	if err != nil {
		return Artifact{}, err
	}
	artifact.Dropped = p.dropped
	artifact.Warnings = p.issues
	o.archive(ctx, p, &artifact)
	return artifact, nil
}

func (o *Orchestrator) prepare(ctx context.Context, in ExportData) (prepared, error) {
	now := time.Now()
	if o.Now != nil {
		now = o.Now()
	}

	auditCtx := in.auditContext()
	if len(in.Scores) == 0 && len(in.Questions) > 0 {
		for i, q := range in.Questions {
			if strings.TrimSpace(q.ID) == "" {
				return prepared{}, stageErr(StageScoring, fmt.Errorf("%w: questions[%d].id is required", ErrInvalidExport, i))
			}
		}
		auditCtx = auditCtx.WithScores()
	}

	report := recommendations.ValidateTyped(in.Recommendations)
	if err := report.Err(); err != nil {
		return prepared{}, stageErr(StageValidation, err)
	}

	enriched := recommendations.Enrich(ctx, report.Kept, auditCtx)
	if err := ctx.Err(); err != nil {
		return prepared{}, stageErr(StageEnrichment, err)
	}

	ordered := recommendations.Prioritize(enriched)

	meta := in.Metadata
	if strings.TrimSpace(meta.Brand) == "" {
		meta.Brand = o.Brand
	}
	if strings.TrimSpace(meta.AuditType) == "" {
		meta.AuditType = auditCtx.AuditType
	}

	data := documents.Data{
		Client:          in.ClientInfo,
		Metadata:        meta,
		Global:          auditCtx.GlobalScore,
		Scores:          auditCtx.Scores,
		Recommendations: ordered,
		Impacts:         in.Impacts,
		Matrix:          in.Matrix,
		Planning:        in.Planning,
	}
	return prepared{data: data, dropped: report.Dropped, issues: report.Warnings(), now: now}, nil
}

// archive stores a copy of the artifact when archiving is enabled. A failed
// upload is logged and leaves StorageKey empty.
func (o *Orchestrator) archive(ctx context.Context, p prepared, artifact *Artifact) {
	if !o.Archive || o.Store == nil {
		return
	}
	key, err := object.ArtifactKey(p.data.Client.Name, artifact.FileName, p.now)
	if err != nil {
		telemetry.Error("export.archive_failed", map[string]any{"stage": string(StageArchive), "error": err.Error()})
		return
	}
	if _, err := o.Store.Put(ctx, key, artifact.ContentType, bytes.NewReader(artifact.Data)); err != nil {
		telemetry.Error("export.archive_failed", map[string]any{"stage": string(StageArchive), "storageKey": key, "error": err.Error()})
		return
	}
	artifact.StorageKey = key
}

func titleLines(data documents.Data) []string {
	meta := data.Metadata
	lines := []string{data.Client.Name}
	kind := strings.TrimSpace(strings.Join([]string{meta.AuditType, meta.AuditSubtype}, " "))
	if kind != "" {
		lines = append(lines, "Audit "+kind)
	}
	if meta.Date != "" {
		lines = append(lines, "Date : "+meta.Date)
	}
	if meta.Author != "" {
		lines = append(lines, "Auteur : "+meta.Author)
	}
	if meta.Version != "" {
		lines = append(lines, "Version "+meta.Version)
	}
	if meta.Reference != "" {
		lines = append(lines, "Référence : "+meta.Reference)
	}
	return lines
}

func headerText(data documents.Data, title string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{data.Metadata.Brand, title, data.Client.Name} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}
