package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-betterform/pkg/form"
	"github.com/goliatone/go-betterform/pkg/registry"
)

// MustLoadFormConfig reads a JSON or YAML form config fixture.
func MustLoadFormConfig(t *testing.T, path string) form.Config {
	t.Helper()

	cfg, err := form.LoadFile(path)
	if err != nil {
		t.Fatalf("load form config: %v", err)
	}
	return cfg
}

// MustLoadItem loads a JSON golden file into a registry item.
func MustLoadItem(t *testing.T, path string) registry.Item {
	t.Helper()

	item, err := LoadItem(path)
	if err != nil {
		t.Fatalf("load registry item: %v", err)
	}
	return item
}

// LoadItem reads a registry item fixture, returning an error for callers
// managing setup outside of *testing.T.
func LoadItem(path string) (registry.Item, error) {
	if path == "" {
		return registry.Item{}, errors.New("testsupport: registry item path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return registry.Item{}, fmt.Errorf("testsupport: read registry item: %w", err)
	}
	var out registry.Item
	if err := json.Unmarshal(data, &out); err != nil {
		return registry.Item{}, fmt.Errorf("testsupport: unmarshal registry item: %w", err)
	}
	return out, nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, append(payload, '\n'))
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
