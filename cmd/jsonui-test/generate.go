package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/docs"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/project"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/report"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/validate"
)

var (
	generateFile   string
	generateOutput string
	generateFormat string
	generateSchema bool
	generateDir    string
	generateSelect string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate documentation from test files",
	Long: `Generate Markdown or HTML documentation.

  generate -f login.test.json [-o login.html]   one test file
  generate --dir tests -o docs                  every test below a directory, as HTML
  generate --dir tests --select 'type == "flow"'  only the tests matching an expression
  generate --schema [-o schema.md]              action and assertion reference

The format defaults to the output extension (.html or .md), then the
project's output.format, then markdown.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := "."
	switch {
	case generateFile != "":
		start = generateFile
	case generateDir != "":
		start = generateDir
	}
	if _, err := os.Stat(start); err != nil {
		return fmt.Errorf("file not found: %s", start)
	}
	proj, err := loadProject(start)
	if err != nil {
		return err
	}
	format, err := outputFormat(generateFormat, generateOutput, proj)
	if err != nil {
		return err
	}

	switch {
	case generateSchema:
		content, err := docs.Schema(format)
		if err != nil {
			return err
		}
		if generateOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		}
		if err := docs.WriteFile(generateOutput, content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema reference written to: %s\n", generateOutput)
		return nil

	case generateDir != "":
		return runGenerateDir(cmd, proj)

	case generateFile == "":
		return fmt.Errorf("either --file, --dir or --schema is required")
	}

	g := docs.New(docs.Options{Resolver: proj.Resolver(), StrictSchema: proj.Validate.StrictSchema})
	if generateOutput != "" {
		result, err := g.GenerateFile(generateFile, generateOutput, format)
		if err != nil {
			return generateFailure(cmd, err, result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Documentation written to: %s\n", generateOutput)
		return nil
	}
	content, result, err := g.Generate(generateFile, format)
	if err != nil {
		return generateFailure(cmd, err, result)
	}
	fmt.Fprint(cmd.OutOrStdout(), content)
	return nil
}

func runGenerateDir(cmd *cobra.Command, proj *project.Project) error {
	if cmd.Flags().Changed("format") && generateFormat != string(docs.FormatHTML) {
		return fmt.Errorf("--dir generates HTML only")
	}
	out := generateOutput
	if out == "" {
		out = proj.OutputDir()
	}
	if out == "" {
		out = "docs"
	}

	sel, err := docs.CompileSelector(generateSelect)
	if err != nil {
		return err
	}
	g := docs.New(docs.Options{
		Resolver:     proj.Resolver(),
		StrictSchema: proj.Validate.StrictSchema,
		Select:       sel,
	})
	sum, err := g.GenerateDir(cmd.Context(), generateDir, out)
	if err != nil {
		return err
	}
	for _, s := range sum.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s: %s\n", s.Path, s.Reason)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Documentation written to: %s (%d pages)\n", out, len(sum.Pages))
	if len(sum.Skipped) > 0 {
		return errFailed
	}
	return nil
}

// outputFormat resolves --format, the output extension, the project
// default and finally markdown.
func outputFormat(flag, output string, proj *project.Project) (docs.Format, error) {
	if flag != "" {
		return docs.ParseFormat(flag)
	}
	if output != "" {
		if f := docs.FormatForPath(output, ""); f != "" {
			return f, nil
		}
	}
	return docs.ParseFormat(proj.OutputFormat(string(docs.FormatMarkdown)))
}

// generateFailure prints the validation errors behind a refused render.
func generateFailure(cmd *cobra.Command, err error, result *validate.Result) error {
	if !errors.Is(err, docs.ErrInvalidDocument) || result == nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	report.Text(cmd.ErrOrStderr(), []*validate.Result{result}, report.Options{Quiet: true})
	return errFailed
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "Test file to generate documentation for")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (or directory with --dir)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "", "Output format: markdown or html")
	generateCmd.Flags().BoolVar(&generateSchema, "schema", false, "Generate the schema reference instead of test documentation")
	generateCmd.Flags().StringVar(&generateDir, "dir", "", "Generate HTML for every test below this directory")
	generateCmd.Flags().StringVar(&generateSelect, "select", "", `Expression choosing tests for --dir, e.g. 'type == "flow"'`)
}
