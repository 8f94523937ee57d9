package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/diagram"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/docs"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/html"
)

var (
	diagramFormat string
	diagramOutput string
	diagramTitle  string
)

var diagramCmd = &cobra.Command{
	Use:   "diagram [flows-dir]",
	Short: "Chart screen transitions across flow tests",
	Long: `Chart the screens every flow test visits, in order.

Formats: mermaid (flowchart source), ascii (one box chain per flow) and
html (a page rendering the Mermaid chart). With no argument the project's
flows directory is used. File references are resolved the same way the
validator resolves them, honouring the project's paths settings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiagram,
}

func runDiagram(cmd *cobra.Command, args []string) error {
	start := "."
	if len(args) == 1 {
		start = args[0]
	}
	proj, err := loadProject(start)
	if err != nil {
		return err
	}
	flowsDir := filepath.Join(proj.Root, proj.FlowsDir())
	if len(args) == 1 {
		flowsDir = args[0]
	}

	g, err := diagram.Scan(proj.Resolver(), flowsDir)
	if err != nil {
		return err
	}

	var content string
	switch diagramFormat {
	case "mermaid", "ascii":
		content, err = diagram.Generate(g, diagram.Format(diagramFormat))
	case "html":
		var code string
		code, err = diagram.Generate(g, diagram.FormatMermaid)
		if err == nil {
			content, err = html.RenderDiagram(diagramTitle, code, nil)
		}
	default:
		return fmt.Errorf("unsupported --format %q (want mermaid, ascii or html)", diagramFormat)
	}
	if err != nil {
		return err
	}

	if diagramOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	}
	if err := docs.WriteFile(diagramOutput, content); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Diagram written to: %s\n", diagramOutput)
	return nil
}

func init() {
	diagramCmd.Flags().StringVar(&diagramFormat, "format", "mermaid", "Output format: mermaid, ascii or html")
	diagramCmd.Flags().StringVarP(&diagramOutput, "output", "o", "", "Write to this file instead of stdout")
	diagramCmd.Flags().StringVar(&diagramTitle, "title", "", "Page title for --format html")
}
