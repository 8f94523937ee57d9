package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/diagram"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/docs"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/logging"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/project"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/report"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/validate"
)

// HandleValidate implements the jsonui/validate MCP tool. The result is
// the JSON report; it is flagged as an error when any file has errors.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	strict, _ := args["strict"].(bool)

	info, err := os.Stat(path)
	if err != nil {
		return errorResult(fmt.Sprintf("path not found: %s", path)), nil
	}
	files := []string{path}
	if info.IsDir() {
		files, err = docs.FindTests(path)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if len(files) == 0 {
			return errorResult("No .test.json files found"), nil
		}
	}

	proj, err := project.Load("", path)
	if err != nil {
		return errorResult(fmt.Sprintf("load project: %s", err)), nil
	}
	v := validate.New(validate.Options{
		Resolver:     proj.Resolver(),
		StrictSchema: strict || proj.Validate.StrictSchema,
	})
	results := v.ValidateFiles(ctx, files, 0)

	var out bytes.Buffer
	totals, err := report.JSON(&out, results, report.Options{})
	if err != nil {
		return errorResult(err.Error()), nil
	}
	logging.Debug("mcp", "validated %d files: %d errors, %d warnings", totals.Files, totals.Errors, totals.Warnings)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(out.String())},
		IsError: !totals.Passed(),
	}, nil
}

// HandleGenerate implements the jsonui/generate MCP tool.
func HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	output, _ := args["output"].(string)

	format := docs.FormatMarkdown
	if output != "" {
		format = docs.FormatForPath(output, docs.FormatMarkdown)
	}
	if f, _ := args["format"].(string); f != "" {
		parsed, err := docs.ParseFormat(f)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		format = parsed
	}

	proj, err := project.Load("", path)
	if err != nil {
		return errorResult(fmt.Sprintf("load project: %s", err)), nil
	}
	g := docs.New(docs.Options{Resolver: proj.Resolver(), StrictSchema: proj.Validate.StrictSchema})

	if output != "" {
		result, err := g.GenerateFile(path, output, format)
		if err != nil {
			return generateError(err, result), nil
		}
		return textResult(fmt.Sprintf("Documentation written to: %s", output)), nil
	}

	content, result, err := g.Generate(path, format)
	if err != nil {
		return generateError(err, result), nil
	}
	return textResult(content), nil
}

func generateError(err error, result *validate.Result) *mcp.CallToolResult {
	if !errors.Is(err, docs.ErrInvalidDocument) || result == nil {
		return errorResult(err.Error())
	}
	var out bytes.Buffer
	out.WriteString(err.Error())
	out.WriteString("\n")
	for _, m := range result.Errors {
		out.WriteString(m.String())
		out.WriteString("\n")
	}
	return errorResult(out.String())
}

// HandleDiagram implements the jsonui/diagram MCP tool.
func HandleDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	flowsDir, _ := args["flows_dir"].(string)
	if flowsDir == "" {
		return errorResult("flows_dir argument is required"), nil
	}

	proj, err := project.Load("", flowsDir)
	if err != nil {
		return errorResult(fmt.Sprintf("load project: %s", err)), nil
	}
	g, err := diagram.Scan(proj.Resolver(), flowsDir)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	code, err := diagram.Generate(g, diagram.FormatMermaid)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(code), nil
}

// HandleSchema implements the jsonui/schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	schemaType, _ := args["type"].(string)

	var data []byte
	var err error

	switch schemaType {
	case "test":
		data, err = schema.GenerateJSONSchema()
	case "description":
		data, err = schema.GenerateDescriptionJSONSchema()
	case "reference":
		var md string
		md, err = docs.Schema(docs.FormatMarkdown)
		data = []byte(md)
	default:
		return errorResult(fmt.Sprintf("unknown schema type %q, use 'test', 'description' or 'reference'", schemaType)), nil
	}

	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
