package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/docs"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/logging"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/report"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/validate"
)

var (
	validateFormat string
	validateJobs   int
	validateStrict bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir>...",
	Short: "Validate test files",
	Long:  "Validate .test.json files and description files. Directories are searched recursively for *.test.json.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateFormat != "text" && validateFormat != "json" {
		return fmt.Errorf("unsupported --format %q (want text or json)", validateFormat)
	}

	files, missing, err := collectFiles(args)
	if err != nil {
		return err
	}
	for _, p := range missing {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Path not found: %s\n", p)
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No .test.json files found")
		return errFailed
	}

	results, projQuiet, err := validateFiles(cmd.Context(), files)
	if err != nil {
		return err
	}

	opts := report.Options{Verbose: verbose, Quiet: quiet || projQuiet}
	var totals report.Totals
	if validateFormat == "json" {
		totals, err = report.JSON(cmd.OutOrStdout(), results, opts)
		if err != nil {
			return err
		}
	} else {
		totals = report.Text(cmd.OutOrStdout(), results, opts)
	}

	if !totals.Passed() || len(missing) > 0 {
		return errFailed
	}
	return nil
}

// validateFiles validates every file with the settings of the project it
// belongs to. Files sharing a layout and strictness are validated together.
// The returned flag is true when every project asks for quiet reports.
func validateFiles(ctx context.Context, files []string) ([]*validate.Result, bool, error) {
	type settings struct {
		resolver resolve.Resolver
		strict   bool
	}
	var (
		order    []settings
		groups   = make(map[settings][]string)
		allQuiet = true
	)
	for _, f := range files {
		proj, err := loadProject(f)
		if err != nil {
			return nil, false, err
		}
		allQuiet = allQuiet && proj.Validate.Quiet
		key := settings{resolver: proj.Resolver(), strict: validateStrict || proj.Validate.StrictSchema}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], f)
	}

	var results []*validate.Result
	for _, key := range order {
		v := validate.New(validate.Options{Resolver: key.resolver, StrictSchema: key.strict})
		logging.Debug("validate", "validating %d files with %d workers", len(groups[key]), validateJobs)
		results = append(results, v.ValidateFiles(ctx, groups[key], validateJobs)...)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].FilePath < results[j].FilePath })
	return results, allQuiet, nil
}

// collectFiles expands directories to the *.test.json files below them and
// returns the sorted, de-duplicated file list plus the paths that do not
// exist.
func collectFiles(paths []string) (files, missing []string, err error) {
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	for _, p := range paths {
		info, statErr := os.Stat(p)
		if statErr != nil {
			missing = append(missing, p)
			continue
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		found, err := docs.FindTests(p)
		if err != nil {
			return nil, nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	sort.Strings(files)
	return files, missing, nil
}

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "Report format: text or json")
	validateCmd.Flags().IntVarP(&validateJobs, "jobs", "j", 0, "Files validated in parallel (default: one per CPU)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict-schema", false, "Also check documents against the generated JSON Schema")
}
