package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/docs"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

var schemaType string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Export the JSON Schema for test or description files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		switch schemaType {
		case "test":
			data, err = schema.GenerateJSONSchema()
		case "description":
			data, err = schema.GenerateDescriptionJSONSchema()
		default:
			return fmt.Errorf("unknown schema type %q (want test or description)", schemaType)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var previewWidth int

var previewCmd = &cobra.Command{
	Use:   "preview <file.test.json>",
	Short: "Render a test's Markdown documentation in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject(args[0])
		if err != nil {
			return err
		}
		g := docs.New(docs.Options{Resolver: proj.Resolver(), StrictSchema: proj.Validate.StrictSchema})
		md, result, err := g.Generate(args[0], docs.FormatMarkdown)
		if err != nil {
			return generateFailure(cmd, err, result)
		}
		out, err := docs.Preview(md, previewWidth)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaType, "type", "test", "Schema type: test or description")
	previewCmd.Flags().IntVar(&previewWidth, "width", 100, "Wrap width (0 disables wrapping)")
}
