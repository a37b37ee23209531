package template

import (
	"fmt"
	"io"
)

// Renderer renders a named template from the engine's source. Output is
// returned and, when writers are supplied, copied to each of them.
type Renderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}

// RenderFunc adapts a function to Renderer, e.g. to stub generation in tests.
type RenderFunc func(name string, data any) (string, error)

// RenderTemplate calls f and copies the result to out.
func (f RenderFunc) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	result, err := f(name, data)
	if err != nil {
		return "", err
	}
	if err := Copy(result, out...); err != nil {
		return "", err
	}
	return result, nil
}

// Copy writes rendered output to every non-nil writer.
func Copy(result string, out ...io.Writer) error {
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, result); err != nil {
			return fmt.Errorf("template: write output: %w", err)
		}
	}
	return nil
}
