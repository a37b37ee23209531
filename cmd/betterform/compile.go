package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	betterform "github.com/goliatone/go-betterform"
	"github.com/goliatone/go-betterform/pkg/deps"
)

// Output formats for compile.
const (
	formatFiles    = "files"
	formatBundle   = "json"
	formatRegistry = "registry"
)

type compileOptions struct {
	out     string
	format  string
	manager string
}

func newCompileCmd(a *app) *cobra.Command {
	opts := compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile <config>",
		Short: "Generate the schema, form and registry item for a form config",
		Long: `Compile reads a JSON or YAML form config and generates its files.

Formats:
  files     write the schema, form and bundled components under --out
  json      print the whole bundle (config, dependencies, files, registry item)
  registry  print only the shadcn registry item`,
		Example: `  betterform compile contact.yaml --out ./web
  betterform compile contact.json --format registry > contact.registry.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := a.load(cmd); err != nil {
				return err
			}
			return runCompile(cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "project root to write files into (files format)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatFiles, "output format: files, json or registry")
	cmd.Flags().StringVar(&opts.manager, "manager", "npm", "package manager for install hints: npm, pnpm, yarn or bun")
	return cmd
}

func runCompile(w io.Writer, path string, opts compileOptions) error {
	manager, err := findManager(opts.manager)
	if err != nil {
		return err
	}

	cfg, err := betterform.LoadFile(path)
	if err != nil {
		return err
	}
	bundle, err := betterform.Export(cfg)
	if err != nil {
		return err
	}

	switch strings.ToLower(opts.format) {
	case formatFiles, "":
		written, err := writeFiles(opts.out, bundle)
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Fprintf(w, "wrote %s\n", p)
		}
		printActions(w, bundle.Dependencies.Actions, manager)
		return nil
	case formatBundle:
		return writeJSON(w, bundle)
	case formatRegistry:
		return writeJSON(w, bundle.Item)
	default:
		return fmt.Errorf("unknown format %q (want files, json or registry)", opts.format)
	}
}

func writeFiles(root string, bundle betterform.Bundle) ([]string, error) {
	var written []string
	for _, file := range bundle.Files.Files() {
		target := filepath.Join(root, filepath.FromSlash(file.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("create directory for %s: %w", file.Path, err)
		}
		if err := os.WriteFile(target, []byte(file.Code), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", file.Path, err)
		}
		written = append(written, target)
	}
	return written, nil
}

func printActions(w io.Writer, actions []deps.Action, manager string) {
	if len(actions) == 0 {
		return
	}
	fmt.Fprintln(w, "\nNext steps:")
	for _, action := range actions {
		for _, c := range action.Commands {
			if c.Label == manager {
				fmt.Fprintf(w, "  %s:\n    %s\n", action.Label, c.Command)
			}
		}
	}
}

func findManager(label string) (string, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	names := make([]string, len(deps.Managers))
	for i, m := range deps.Managers {
		if m.Label == label {
			return label, nil
		}
		names[i] = m.Label
	}
	return "", fmt.Errorf("unknown package manager %q (want %s)", label, strings.Join(names, ", "))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
