// Package main provides the jsonui-test CLI: validation and documentation
// generation for JsonUI test files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/logging"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/project"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Environment overrides.
const (
	envConfig   = "JSONUI_TEST_CONFIG"
	envLogLevel = "JSONUI_TEST_LOG_LEVEL"
)

// errFailed signals a failure that has already been reported to the user.
var errFailed = errors.New("failed")

var (
	configPath string
	logLevel   string
	verbose    bool
	quiet      bool
)

func main() {
	_ = godotenv.Load() // .env is optional; existing variables win
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "jsonui-test",
	Short:             "Validate and generate documentation for JsonUI test files",
	Long:              "jsonui-test checks JsonUI screen and flow tests against the test schema and renders Markdown or HTML documentation from them.",
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

// initLogging picks the log level: --log-level, then JSONUI_TEST_LOG_LEVEL,
// then --verbose/--quiet, then WARN.
func initLogging(cmd *cobra.Command, _ []string) error {
	level := logging.LevelWarn
	switch {
	case verbose:
		level = logging.LevelDebug
	case quiet:
		level = logging.LevelError
	}
	raw := logLevel
	if raw == "" {
		raw = os.Getenv(envLogLevel)
	}
	if raw != "" {
		l, err := logging.ParseLevel(raw)
		if err != nil {
			return err
		}
		level = l
	}
	logging.InitForCLI(level, cmd.ErrOrStderr())
	return nil
}

// loadProject returns the project for startPath, honouring --config and
// JSONUI_TEST_CONFIG.
func loadProject(startPath string) (*project.Project, error) {
	explicit := configPath
	if explicit == "" {
		explicit = os.Getenv(envConfig)
	}
	proj, err := project.Load(explicit, startPath)
	if err != nil {
		return nil, err
	}
	logging.Debug("cli", "project %s rooted at %s", proj.Name, proj.Root)
	return proj, nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jsonui-test %s (build: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to jsonui-test.yaml (overrides discovery and "+envConfig+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides "+envLogLevel+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show all files, including valid ones, and debug logs")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Hide warnings, show only errors")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(diagramCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}
