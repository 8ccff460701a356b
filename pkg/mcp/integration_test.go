package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/bindinfo/pkg/extract"
	"github.com/Sumatoshi-tech/bindinfo/pkg/mcp"
)

const bindingHeader = `typedef int LavHandle;
enum Lav_ERRORS { Lav_ERROR_NONE, Lav_ERROR_RANGE, Lav_ERROR_MAX };
enum Lav_NODE_TYPES { Lav_NODETYPE_SINE = 1 };
int Lav_nodeGetType(LavHandle nodeHandle, int* destination);
`

const bindingMetadata = "nodes: {}\nadditional_important_enums: [Lav_ERRORS]\n"

// staticHeader stands in for the preprocessor and returns the same text for
// every header path.
type staticHeader string

func (s staticHeader) Run(context.Context, string) ([]byte, error) { return []byte(s), nil }

func connect(t *testing.T, srv *mcp.Server) (context.Context, *mcpsdk.ClientSession) {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	t.Cleanup(func() {
		cancel()
		<-serverDone
	})

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = session.Close() })

	return ctx, session
}

func newServer(t *testing.T) (*mcp.Server, string) {
	t.Helper()

	metadataPath := filepath.Join(t.TempDir(), "metadata.y")
	require.NoError(t, os.WriteFile(metadataPath, []byte(bindingMetadata), 0o600))

	return mcp.NewServer(mcp.ServerDeps{Extractor: extract.NewPipeline(staticHeader(bindingHeader))}), metadataPath
}

func textOf(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestMCPServer_InMemoryTransport_ToolsList(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	ctx, session := connect(t, srv)

	toolsResult, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, toolsResult)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, srv.ListToolNames(), toolNames)
	assert.Equal(t, []string{"bindinfo_enums", "bindinfo_extract", "bindinfo_validate_metadata"}, srv.ListToolNames())
}

func TestMCPServer_InMemoryTransport_CallExtract(t *testing.T) {
	t.Parallel()

	srv, metadataPath := newServer(t)
	ctx, session := connect(t, srv)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "bindinfo_extract",
		Arguments: map[string]any{
			"header":   "binding.h",
			"metadata": metadataPath,
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, textOf(t, result))

	var decoded struct {
		Functions      map[string]any `json:"functions"`
		ImportantEnums []string       `json:"important_enums"`
	}

	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &decoded))
	assert.Contains(t, decoded.Functions, "Lav_nodeGetType")
	assert.Equal(t, []string{"Lav_ERRORS"}, decoded.ImportantEnums)

	result, err = session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "bindinfo_extract",
		Arguments: map[string]any{"header": "binding.h", "format": "yaml"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, textOf(t, result), "Lav_nodeGetType:")
}

func TestMCPServer_InMemoryTransport_CallEnumsImportantOnly(t *testing.T) {
	t.Parallel()

	srv, metadataPath := newServer(t)
	ctx, session := connect(t, srv)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name: "bindinfo_enums",
		Arguments: map[string]any{
			"header":         "binding.h",
			"metadata":       metadataPath,
			"important_only": true,
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, textOf(t, result))

	var groups map[string]map[string]int64
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &groups))
	assert.Equal(t, map[string]map[string]int64{
		"Lav_ERRORS": {"Lav_ERROR_NONE": 0, "Lav_ERROR_RANGE": 1},
	}, groups)
}

func TestMCPServer_InMemoryTransport_CallExtract_Error(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t)
	ctx, session := connect(t, srv)

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "bindinfo_extract",
		Arguments: map[string]any{"header": ""},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "header parameter is required")
}
