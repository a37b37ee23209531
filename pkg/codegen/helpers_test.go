package codegen_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/goliatone/go-betterform/pkg/codegen"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func sortedImports(in []codegen.Import) []codegen.Import {
	out := append([]codegen.Import(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
