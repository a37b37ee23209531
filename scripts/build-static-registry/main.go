package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	betterform "github.com/goliatone/go-betterform"
	"github.com/goliatone/go-betterform/pkg/registry"
)

// Compiles every form config in a directory into a static registry that can
// be hosted from any file server: registry.json plus r/<name>.json per form.
func main() {
	var (
		formsDir = flag.String("forms", "pkg/form/testdata", "directory of .json/.yaml form configs")
		outDir   = flag.String("out", "dist/registry", "output directory")
		homepage = flag.String("homepage", "", "homepage recorded in registry.json")
	)
	flag.Parse()

	if err := run(*formsDir, *outDir, *homepage); err != nil {
		fmt.Fprintf(os.Stderr, "build-static-registry: %v\n", err)
		os.Exit(1)
	}
}

func run(formsDir, outDir, homepage string) error {
	paths, err := configPaths(formsDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no form configs found in %s", formsDir)
	}

	itemsDir := filepath.Join(outDir, "r")
	if err := os.MkdirAll(itemsDir, 0o755); err != nil {
		return err
	}

	var items []registry.Item
	for _, path := range paths {
		cfg, err := betterform.LoadFile(path)
		if err != nil {
			return err
		}
		bundle, err := betterform.Export(cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := writeJSON(filepath.Join(itemsDir, bundle.Item.Name+".json"), bundle.Item); err != nil {
			return err
		}
		items = append(items, bundle.Item)
		fmt.Printf("compiled %s -> r/%s.json\n", path, bundle.Item.Name)
	}

	return writeJSON(filepath.Join(outDir, "registry.json"), registry.BuildIndex(items, homepage))
}

func configPaths(dir string) ([]string, error) {
	var out []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out, nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
