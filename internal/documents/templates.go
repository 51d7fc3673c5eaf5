package documents

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplatesYAML []byte

const (
	TypeAuditReport    = "audit_report"
	TypeTechnicalOffer = "technical_offer"
	TypeSpecifications = "specifications"
)

var ErrNoTemplates = errors.New("no document templates defined")

// SectionTemplate describes how one section is filled. Source names a data
// source; Items are static bullets appended after sourced ones.
type SectionTemplate struct {
	Title       string            `yaml:"title"`
	Intro       string            `yaml:"intro,omitempty"`
	Source      string            `yaml:"source,omitempty"`
	Items       []string          `yaml:"items,omitempty"`
	Subsections []SectionTemplate `yaml:"subsections,omitempty"`
}

// Template is the section layout of one document type.
type Template struct {
	Title    string            `yaml:"title"`
	Artifact string            `yaml:"artifact"`
	Sections []SectionTemplate `yaml:"sections"`
}

// Templates maps document types to their layout.
type Templates map[string]Template

// DefaultTemplates returns the embedded template table.
func DefaultTemplates() (Templates, error) {
	return parseTemplates(defaultTemplatesYAML)
}

// LoadTemplates reads a YAML template table, falling back to the embedded one
// when path is empty.
func LoadTemplates(path string) (Templates, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTemplates()
	}
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return parseTemplates(raw)
}

func parseTemplates(raw []byte) (Templates, error) {
	var out Templates
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoTemplates
	}
	for name, tmpl := range out {
		if len(tmpl.Sections) == 0 {
			return nil, fmt.Errorf("template %q has no sections", name)
		}
		for i, section := range tmpl.Sections {
			if strings.TrimSpace(section.Title) == "" {
				return nil, fmt.Errorf("template %q section %d has no title", name, i)
			}
		}
	}
	return out, nil
}

// Lookup returns the template for a document type. Unknown types get a
// single default section.
func (t Templates) Lookup(docType string) (Template, bool) {
	key := strings.ToLower(strings.TrimSpace(docType))
	if tmpl, ok := t[key]; ok {
		return tmpl, true
	}
	return defaultTemplate, false
}

// Types lists the configured document types.
func (t Templates) Types() []string {
	out := make([]string, 0, len(t))
	for name := range t {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var defaultTemplate = Template{
	Title:    "Document",
	Artifact: "Document",
	Sections: []SectionTemplate{
		{Title: "Recommandations", Source: SourceRecommendations},
	},
}
