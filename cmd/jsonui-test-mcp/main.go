// Package main provides the jsonui-test-mcp binary, an MCP server exposing
// validation and documentation tools over stdio.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	jmcp "github.com/Tai-Kimura/jsonui-test-runner/pkg/mcp"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/logging"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	// stdout carries the protocol; logs go to stderr.
	level := logging.LevelWarn
	if raw := os.Getenv("JSONUI_TEST_LOG_LEVEL"); raw != "" {
		if l, err := logging.ParseLevel(raw); err == nil {
			level = l
		}
	}
	logging.InitForCLI(level, os.Stderr)

	s := jmcp.NewServer(version)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
