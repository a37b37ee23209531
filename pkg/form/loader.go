package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a serialised Config encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the encoding from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and decodes a Config from disk. Missing field ids and labels
// are filled in; structural validation is left to the caller.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("form: config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("form: read config: %w", err)
	}
	cfg, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("form: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("form: unmarshal yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("form: unmarshal json: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("form: unsupported format %q", format)
	}
	return cfg.Normalize(), nil
}

// Encode writes cfg in the given format.
func Encode(w io.Writer, cfg Config, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("form: encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("form: encode json: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return fmt.Errorf("form: unsupported format %q", format)
	}
}
