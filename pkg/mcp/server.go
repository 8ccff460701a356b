// Package mcp implements a Model Context Protocol server exposing bindinfo
// extraction as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/bindinfo/pkg/apimodel"
	"github.com/Sumatoshi-tech/bindinfo/pkg/extract"
	"github.com/Sumatoshi-tech/bindinfo/pkg/observability"
)

const (
	serverName = "bindinfo"

	toolCount = 3
)

// Extractor builds a model for a request. *extract.Pipeline satisfies it.
type Extractor interface {
	Run(ctx context.Context, req extract.Request) (*apimodel.Model, error)
}

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value optional fields use production defaults.
type ServerDeps struct {
	// Extractor runs extractions for the extract and enums tools. Required.
	Extractor Extractor

	// Version is reported as the server implementation version.
	Version string

	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional per-tool recorder. Nil disables tool metrics.
	Metrics *observability.ToolMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with the bindinfo tool registrations.
type Server struct {
	inner     *mcpsdk.Server
	extractor Extractor
	logger    *slog.Logger

	mu      sync.RWMutex
	tools   []string
	metrics *observability.ToolMetrics
	tracer  trace.Tracer
}

// NewServer creates a new MCP server with all bindinfo tools registered.
func NewServer(deps ServerDeps) *Server {
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version,
		},
		nil,
	)

	srv := &Server{
		inner:     inner,
		extractor: deps.Extractor,
		logger:    logger,
		tools:     make([]string, 0, toolCount),
		metrics:   deps.Metrics,
		tracer:    deps.Tracer,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	addTool(s, ToolNameExtract, extractToolDescription, s.handleExtract)
	addTool(s, ToolNameEnums, enumsToolDescription, s.handleEnums)
	addTool(s, ToolNameValidateMetadata, validateToolDescription, s.handleValidateMetadata)
}

func addTool[Input any](s *Server, name, description string, handler toolHandler[Input]) {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: description,
	}, mcpsdk.ToolHandlerFor[Input, ToolOutput](withMetrics(s.metrics, name, withTracing(s.tracer, name, handler))))

	s.trackTool(name)
}

type toolHandler[Input any] func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error)

const (
	mcpSpanPrefix  = "mcp."
	traceIDMetaKey = "trace_id"

	statusOK    = "ok"
	statusError = "error"
)

// withTracing wraps a tool handler in a span and appends the trace_id to
// sampled responses.
func withTracing[Input any](tracer trace.Tracer, toolName string, handler toolHandler[Input]) toolHandler[Input] {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps a tool handler to count calls and their duration.
func withMetrics[Input any](
	metrics *observability.ToolMetrics, toolName string, handler toolHandler[Input],
) toolHandler[Input] {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		result, output, err := handler(ctx, req, input)

		status := statusOK
		if err != nil || (result != nil && result.IsError) {
			status = statusError
		}

		metrics.RecordCall(ctx, toolName, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

const (
	extractToolDescription = "Extract the API model (functions, typedefs, enumeration constants, " +
		"important enums) from a C header and an optional metadata YAML file. " +
		"Returns JSON, YAML or a text table."

	enumsToolDescription = "List enumeration constants grouped by enum for a C header. " +
		"Set important_only to keep the enums referenced by the metadata."

	validateToolDescription = "Check a metadata YAML file against the metadata schema " +
		"and list every problem found."
)
