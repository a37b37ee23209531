package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-betterform/pkg/deps"
	"github.com/goliatone/go-betterform/pkg/form"
	"github.com/goliatone/go-betterform/pkg/planner"
)

// ErrUniqueIDRequired is returned by ID when no session id is supplied.
var ErrUniqueIDRequired = errors.New("registry: unique id is required")

// Build packages a file plan and dependency plan into an Item. Package names
// become dependencies and shadcn slugs become registryDependencies; project
// components only ever travel as files. Build is pure: equal inputs produce
// equal items.
func Build(formName string, plan planner.FilePlan, depPlan deps.Plan) Item {
	slug := form.Slugify(formName)

	files := []File{
		fileEntry(plan.Schema, planner.SchemaPath(slug), TypeLib),
		fileEntry(plan.Form, planner.FormPath(slug), TypeComponent),
	}
	for _, custom := range plan.CustomComponents {
		files = append(files, fileEntry(custom, planner.ComponentPath(custom.ID), TypeUI))
	}

	return Item{
		Schema:               ItemSchemaURL,
		Name:                 slug,
		Type:                 TypeBlock,
		Title:                formName,
		Description:          fmt.Sprintf("A form component for %s", formName),
		Dependencies:         uniqueSorted(depPlan.PackageNames()),
		RegistryDependencies: uniqueSorted(depPlan.ShadcnSlugs()),
		Files:                files,
		Meta: map[string]any{
			"generatedBy": RegistryName,
			"version":     GeneratorVersion,
		},
	}
}

func fileEntry(file planner.GeneratedFile, fallbackPath, fileType string) File {
	p := strings.TrimSpace(file.Path)
	if p == "" {
		p = fallbackPath
	}
	return File{Path: p, Content: file.Code, Type: fileType, Target: p}
}

// uniqueSorted returns nil for empty input so the field is omitted.
func uniqueSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// ID derives the registry id for a form within one editing session.
func ID(formName, uniqueID string) (string, error) {
	uniqueID = strings.TrimSpace(uniqueID)
	if uniqueID == "" {
		return "", ErrUniqueIDRequired
	}
	return form.Slugify(formName) + "-" + uniqueID, nil
}

// BuildIndex lists items in a registry.json document, sorted by name.
func BuildIndex(items []Item, homepage string) Index {
	entries := make([]IndexEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, IndexEntry{
			Name:        item.Name,
			Type:        item.Type,
			Title:       item.Title,
			Description: item.Description,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return Index{
		Schema:   IndexSchemaURL,
		Name:     RegistryName,
		Homepage: homepage,
		Items:    entries,
	}
}
