// Package mcp exposes validation, documentation generation and schema
// export as MCP tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server with the jsonui-test tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"jsonui-test",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("jsonui/validate",
			mcp.WithDescription("Validate JsonUI test files (.test.json) or description files; directories are searched recursively"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to a test file, description file or directory")),
			mcp.WithBoolean("strict", mcp.Description("Also check documents against the generated JSON Schema")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("jsonui/generate",
			mcp.WithDescription("Generate Markdown or HTML documentation for a valid test file"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the .test.json file")),
			mcp.WithString("format", mcp.Description("Output format: markdown (default) or html")),
			mcp.WithString("output", mcp.Description("Write the document to this path instead of returning it")),
		),
		HandleGenerate,
	)

	s.AddTool(
		mcp.NewTool("jsonui/diagram",
			mcp.WithDescription("Mermaid flowchart of screen transitions across all flow tests in a directory"),
			mcp.WithString("flows_dir", mcp.Required(), mcp.Description("Directory containing flow tests")),
		),
		HandleDiagram,
	)

	s.AddTool(
		mcp.NewTool("jsonui/schema",
			mcp.WithDescription("Export the JSON Schema for test or description files, or the action/assertion reference"),
			mcp.WithString("type", mcp.Required(), mcp.Description("Schema type: 'test', 'description' or 'reference'")),
		),
		HandleSchema,
	)

	return s
}
