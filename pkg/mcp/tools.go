package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/bindinfo/pkg/apimodel"
	"github.com/Sumatoshi-tech/bindinfo/pkg/extract"
	"github.com/Sumatoshi-tech/bindinfo/pkg/metadata"
	"github.com/Sumatoshi-tech/bindinfo/pkg/render"
)

// Tool name constants.
const (
	ToolNameExtract          = "bindinfo_extract"
	ToolNameEnums            = "bindinfo_enums"
	ToolNameValidateMetadata = "bindinfo_validate_metadata"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyHeader indicates the header parameter is empty.
	ErrEmptyHeader = errors.New("header parameter is required and must not be empty")
	// ErrEmptyPath indicates the path parameter is empty.
	ErrEmptyPath = errors.New("path parameter is required and must not be empty")
	// ErrNoExtractor indicates the server was built without an extractor.
	ErrNoExtractor = errors.New("server has no extractor configured")
)

// ExtractInput is the input schema for the bindinfo_extract tool.
type ExtractInput struct {
	Format   string `json:"format,omitempty"   jsonschema:"output format: json (default), yaml or text"`
	Header   string `json:"header"             jsonschema:"path to the C header"`
	Metadata string `json:"metadata,omitempty" jsonschema:"optional path to the metadata YAML file"`
}

// EnumsInput is the input schema for the bindinfo_enums tool.
type EnumsInput struct {
	Header        string `json:"header"                   jsonschema:"path to the C header"`
	ImportantOnly bool   `json:"important_only,omitempty" jsonschema:"only list enums referenced by the metadata"`
	Metadata      string `json:"metadata,omitempty"       jsonschema:"optional path to the metadata YAML file"`
}

// ValidateMetadataInput is the input schema for the bindinfo_validate_metadata tool.
type ValidateMetadataInput struct {
	Path string `json:"path" jsonschema:"path to the metadata YAML file"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// ValidationReport is the result of bindinfo_validate_metadata.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
	Nodes    int      `json:"nodes"`
}

func (s *Server) handleExtract(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ExtractInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	format := render.FormatJSON

	if input.Format != "" {
		parsed, err := render.ParseFormat(input.Format)
		if err != nil {
			return errorResult(err)
		}

		format = parsed
	}

	model, err := s.extract(ctx, input.Header, input.Metadata)
	if err != nil {
		return errorResult(err)
	}

	var buf bytes.Buffer
	if err = render.Write(&buf, model, format, render.TextOptions{}); err != nil {
		return errorResult(err)
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: buf.String()},
		},
	}, ToolOutput{Data: model}, nil
}

func (s *Server) handleEnums(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input EnumsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	model, err := s.extract(ctx, input.Header, input.Metadata)
	if err != nil {
		return errorResult(err)
	}

	groups := model.ConstantsByEnum
	if input.ImportantOnly {
		groups = apimodel.NewOrdered[*apimodel.Ordered[int64]]()

		for name, constants := range model.ConstantsByEnum.All() {
			if model.IsImportant(name) {
				groups.Set(name, constants)
			}
		}
	}

	return jsonResult(groups)
}

func (s *Server) handleValidateMetadata(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input ValidateMetadataInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Path == "" {
		return errorResult(ErrEmptyPath)
	}

	data, err := os.ReadFile(input.Path)
	if err != nil {
		return errorResult(fmt.Errorf("read metadata: %w", err))
	}

	doc, err := metadata.Parse(data, true)
	if err != nil {
		var verr *metadata.ValidationError
		if !errors.As(err, &verr) {
			return errorResult(err)
		}

		s.logger.DebugContext(ctx, "metadata rejected",
			slog.String("path", input.Path), slog.Int("problems", len(verr.Problems)))

		return jsonResult(ValidationReport{Problems: verr.Problems})
	}

	return jsonResult(ValidationReport{Valid: true, Nodes: len(doc.Nodes)})
}

func (s *Server) extract(ctx context.Context, header, metadataPath string) (*apimodel.Model, error) {
	if header == "" {
		return nil, ErrEmptyHeader
	}

	if s.extractor == nil {
		return nil, ErrNoExtractor
	}

	model, err := s.extractor.Run(ctx, extract.Request{HeaderPath: header, MetadataPath: metadataPath})
	if err != nil {
		s.logger.WarnContext(ctx, "extraction failed", slog.String("header", header), slog.Any("error", err))

		return nil, err
	}

	return model, nil
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
