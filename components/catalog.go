package components

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed files/*.tsx
var files embed.FS

// Component describes one bundled composite.
type Component struct {
	Name        string
	Label       string
	Description string
	File        string
}

var catalog = map[string]Component{
	"phone-input": {
		Name:        "phone-input",
		Label:       "Phone input",
		Description: "International phone number input with a searchable country code picker.",
		File:        "phone-input.tsx",
	},
	"country-dropdown": {
		Name:        "country-dropdown",
		Label:       "Country dropdown",
		Description: "Searchable country selector emitting ISO 3166 alpha-3 codes.",
		File:        "country-dropdown.tsx",
	},
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (Component, bool) {
	c, ok := catalog[name]
	return c, ok
}

// Names lists the bundled components in sorted order.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Source returns the file content of the named component.
func Source(name string) (string, error) {
	c, ok := catalog[name]
	if !ok {
		return "", fmt.Errorf("components: unknown component %q", name)
	}
	data, err := files.ReadFile("files/" + c.File)
	if err != nil {
		return "", fmt.Errorf("components: read %s: %w", c.File, err)
	}
	return string(data), nil
}

// FS exposes the embedded component sources rooted at their file names.
func FS() fs.FS {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		panic(err)
	}
	return sub
}
