// Package schema renders the building block descriptors as JSON Schema
// documents, one draft-07 file per block.
package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/bioexcel/biobb-md/pkg/tool"
)

const (
	draft  = "http://json-schema.org/draft-07/schema#"
	idBase = "http://bioexcel.eu/biobb_md/json_schemas/1.0/"
)

// Document is the JSON Schema rendering of one descriptor.
type Document struct {
	Schema               string         `json:"$schema"`
	ID                   string         `json:"$id"`
	Name                 string         `json:"name"`
	Title                string         `json:"title"`
	Type                 string         `json:"type"`
	Required             []string       `json:"required"`
	Properties           map[string]any `json:"properties"`
	AdditionalProperties bool           `json:"additionalProperties"`
}

type fileProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Filetype    string   `json:"filetype"`
	Enum        []string `json:"enum"`
}

type optionProperty struct {
	Type        string `json:"type"`
	Default     any    `json:"default"`
	Description string `json:"description"`
}

// Render builds the schema document of one descriptor. Path keys become
// top-level string properties restricted to their accepted extensions; the
// options land under a nested "properties" object, mirroring the
// configuration file layout.
func Render(spec tool.Spec) Document {
	required := make([]string, 0, len(spec.Inputs)+len(spec.Outputs))
	props := make(map[string]any, len(spec.Inputs)+len(spec.Outputs)+1)
	for _, f := range spec.Inputs {
		props[f.Key] = renderFile(f, "input")
		if f.Required {
			required = append(required, f.Key)
		}
	}
	for _, f := range spec.Outputs {
		props[f.Key] = renderFile(f, "output")
		if f.Required {
			required = append(required, f.Key)
		}
	}

	options := make(map[string]optionProperty, len(spec.Options))
	for _, opt := range spec.Options {
		options[opt.Name] = optionProperty{
			Type:        typeName(opt.Type),
			Default:     opt.Default,
			Description: opt.Description,
		}
	}
	props["properties"] = map[string]any{
		"type":       "object",
		"properties": options,
	}

	return Document{
		Schema:               draft,
		ID:                   idBase + spec.Name,
		Name:                 "biobb_md " + className(spec.Name),
		Title:                spec.Description,
		Type:                 "object",
		Required:             required,
		Properties:           props,
		AdditionalProperties: false,
	}
}

func renderFile(f tool.File, filetype string) fileProperty {
	enum := make([]string, 0, len(f.Formats))
	for _, format := range f.Formats {
		enum = append(enum, ".*\\."+strings.TrimPrefix(format, ".")+"$")
	}
	return fileProperty{
		Type:        "string",
		Description: f.Description,
		Filetype:    filetype,
		Enum:        enum,
	}
}

func typeName(t tool.ValueType) string {
	switch t {
	case tool.Float:
		return "number"
	case tool.Dict:
		return "object"
	default:
		return string(t)
	}
}

// className turns a block name into its exported spelling: grompp_mdrun
// becomes GromppMdrun.
func className(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		if part != "" {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, "")
}

// WriteAll renders every descriptor group into dir, one <name>.json per
// descriptor, and returns the number of documents written.
func WriteAll(dir string, groups ...[]tool.Spec) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	written := 0
	for _, specs := range groups {
		for _, spec := range specs {
			data, err := json.MarshalIndent(Render(spec), "", "  ")
			if err != nil {
				return written, err
			}
			data = append(data, '\n')
			if err := os.WriteFile(filepath.Join(dir, spec.Name+".json"), data, 0o644); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}
