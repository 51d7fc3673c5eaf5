package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"compliance-backend/internal/documents"
	"compliance-backend/internal/export"
)

type exportOptions struct {
	outDir    string
	brand     string
	templates string
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:       "export <docx|xlsx> <export.json>",
		Short:     "Render an export request to a DOCX or XLSX file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{export.FormatDOCX, export.FormatXLSX},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, strings.ToLower(args[0]), args[1])
		},
	}
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "./out", "output directory")
	cmd.Flags().StringVar(&opts.brand, "brand", "Audit", "brand used in filenames and headers")
	cmd.Flags().StringVar(&opts.templates, "templates", "", "YAML template table (defaults to the embedded one)")
	return cmd
}

func runExport(cmd *cobra.Command, opts *exportOptions, format, inputPath string) error {
	var data export.ExportData
	if err := readJSON(inputPath, &data); err != nil {
		return err
	}
	templates, err := documents.LoadTemplates(opts.templates)
	if err != nil {
		return err
	}
	orchestrator := &export.Orchestrator{Templates: templates, Brand: opts.brand}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var artifact export.Artifact
	switch format {
	case export.FormatDOCX:
		artifact, err = orchestrator.ExportDocument(ctx, data)
	case export.FormatXLSX:
		artifact, err = orchestrator.ExportSpreadsheet(ctx, data)
	default:
		return fmt.Errorf("unknown format %q (want docx or xlsx)", format)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(opts.outDir, artifact.FileName)
	if err := os.WriteFile(outPath, artifact.Data, 0o644); err != nil {
		return err
	}
	if err := verifyPackage(artifact); err != nil {
		return fmt.Errorf("export validation failed: %w", err)
	}

	if artifact.Dropped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d recommendations dropped by validation\n", artifact.Dropped)
		for _, w := range artifact.Warnings[1:] {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", w)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK: wrote %s\n", outPath)
	return nil
}

// verifyPackage checks that the artifact is a readable OOXML package with its
// main part present.
func verifyPackage(artifact export.Artifact) error {
	reader, err := zip.NewReader(bytes.NewReader(artifact.Data), int64(len(artifact.Data)))
	if err != nil {
		return err
	}
	mainPart := "word/document.xml"
	if artifact.ContentType == export.ContentTypeXLSX {
		mainPart = "xl/workbook.xml"
	}
	for _, file := range reader.File {
		if strings.ReplaceAll(file.Name, "\\", "/") == mainPart {
			return nil
		}
	}
	return fmt.Errorf("%s not found in %s", mainPart, artifact.FileName)
}
