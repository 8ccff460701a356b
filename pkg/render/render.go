// Package render writes an apimodel.Model as JSON, YAML or terminal tables,
// and compares rendered snapshots.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/bindinfo/pkg/apimodel"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

const indent = "  "

// ErrUnknownFormat is returned for format names other than json, yaml or text.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatYAML, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Write renders model to w in format.
func Write(w io.Writer, model *apimodel.Model, format Format, opts TextOptions) error {
	switch format {
	case FormatJSON:
		return JSON(w, model)
	case FormatYAML:
		return YAML(w, model)
	case FormatText:
		return Text(w, model, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// JSON writes model as indented JSON in declaration order.
func JSON(w io.Writer, model *apimodel.Model) error {
	data, err := json.MarshalIndent(model, "", indent)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	if _, err = w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	return nil
}

// YAML writes model as YAML in declaration order.
func YAML(w io.Writer, model *apimodel.Model) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(len(indent))

	if err := enc.Encode(model); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}

	return nil
}

// NormalizeJSON re-indents a JSON document the way JSON does, keeping key
// order, so snapshots written by other tools compare cleanly.
func NormalizeJSON(data []byte) (string, error) {
	var buf bytes.Buffer

	if err := json.Indent(&buf, bytes.TrimSpace(data), "", indent); err != nil {
		return "", fmt.Errorf("normalize json: %w", err)
	}

	buf.WriteByte('\n')

	return buf.String(), nil
}
