//go:build ignore

// Regenerates the checked-in schema artifacts:
//
//	go run scripts/gen-schema.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/docs"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

func main() {
	testSchema, err := schema.GenerateJSONSchema()
	exitOn(err)
	write("schemas/jsonui-test.schema.json", testSchema)

	descSchema, err := schema.GenerateDescriptionJSONSchema()
	exitOn(err)
	write("schemas/jsonui-description.schema.json", descSchema)

	ref, err := docs.Schema(docs.FormatMarkdown)
	exitOn(err)
	write("docs/schema.md", []byte(ref))
}

func write(path string, data []byte) {
	exitOn(os.MkdirAll(filepath.Dir(path), 0o755))
	exitOn(os.WriteFile(path, data, 0o644))
	fmt.Println("wrote", path)
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
