package registry_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-betterform/pkg/deps"
	"github.com/goliatone/go-betterform/pkg/form"
	"github.com/goliatone/go-betterform/pkg/planner"
	"github.com/goliatone/go-betterform/pkg/registry"
)

func contactConfig() form.Config {
	return form.Config{Name: "Contact", Fields: []form.Field{{
		ID: "email", Type: form.FieldInput, InputType: form.InputEmail, Label: "Email",
		Validation: &form.ValidationRules{Required: true, Email: &form.EmailRules{Preset: form.EmailStandard}},
	}}}
}

func TestBuild_ContactScenario(t *testing.T) {
	cfg := contactConfig()
	depPlan := deps.Resolve(cfg)
	plan, err := planner.Plan(cfg)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	item := registry.Build(cfg.Name, plan, depPlan)

	want := registry.Item{
		Schema:               registry.ItemSchemaURL,
		Name:                 "contact",
		Type:                 registry.TypeBlock,
		Title:                "Contact",
		Description:          "A form component for Contact",
		Dependencies:         []string{"@hookform/resolvers", "react-hook-form", "zod"},
		RegistryDependencies: []string{"button", "form", "input"},
		Files: []registry.File{
			{Path: "components/better-form/schema/contact.ts", Content: plan.Schema.Code, Type: registry.TypeLib, Target: "components/better-form/schema/contact.ts"},
			{Path: "components/better-form/form/contact.tsx", Content: plan.Form.Code, Type: registry.TypeComponent, Target: "components/better-form/form/contact.tsx"},
		},
		Meta: map[string]any{"generatedBy": "better-form", "version": "1.2.0"},
	}
	if diff := cmp.Diff(want, item); diff != "" {
		t.Fatalf("item mismatch (-want +got):\n%s", diff)
	}

	again := registry.Build(cfg.Name, plan, depPlan)
	a, _ := json.Marshal(item)
	b, _ := json.Marshal(again)
	if string(a) != string(b) {
		t.Fatalf("build is not byte-identical across calls")
	}
}

func TestBuild_CustomComponentsShipAsFiles(t *testing.T) {
	cfg := form.Config{Name: "Where", Fields: []form.Field{{ID: "country", Type: form.FieldCountry, Label: "Country"}}}
	depPlan := deps.Resolve(cfg)
	plan, err := planner.Plan(cfg)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	item := registry.Build(cfg.Name, plan, depPlan)

	for _, slug := range item.RegistryDependencies {
		if slug == "country-dropdown" {
			t.Fatalf("project component listed as registry dependency")
		}
	}
	last := item.Files[len(item.Files)-1]
	if last.Type != registry.TypeUI || last.Path != "components/better-form/components/country-dropdown.tsx" {
		t.Fatalf("unexpected custom file %+v", last)
	}
	if last.Target != last.Path {
		t.Fatalf("expected target to default to path")
	}
}

func TestBuild_JSONContract(t *testing.T) {
	item := registry.Build("Empty", planner.FilePlan{}, deps.Plan{})
	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"$schema", "name", "type", "title", "description", "files", "meta"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing key %q in %s", key, data)
		}
	}
	for _, key := range []string{"dependencies", "registryDependencies"} {
		if _, ok := raw[key]; ok {
			t.Fatalf("empty %q should be omitted", key)
		}
	}
	files := raw["files"].([]any)
	first := files[0].(map[string]any)
	if diff := cmp.Diff(map[string]any{
		"path":    "components/better-form/schema/empty.ts",
		"content": "",
		"type":    "registry:lib",
		"target":  "components/better-form/schema/empty.ts",
	}, first); diff != "" {
		t.Fatalf("file shape mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DedupesUnsortedInput(t *testing.T) {
	depPlan := deps.Plan{
		Shadcn:   []deps.ShadcnDependency{{Slug: "input"}, {Slug: "button"}, {Slug: "input"}},
		Packages: []deps.PackageDependency{{Name: "zod"}, {Name: "zod"}, {Name: "react-hook-form"}},
	}
	item := registry.Build("X", planner.FilePlan{}, depPlan)
	if diff := cmp.Diff([]string{"button", "input"}, item.RegistryDependencies); diff != "" {
		t.Fatalf("registry deps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"react-hook-form", "zod"}, item.Dependencies); diff != "" {
		t.Fatalf("deps mismatch (-want +got):\n%s", diff)
	}
}

func TestID(t *testing.T) {
	id, err := registry.ID("Contact Form", "abc123")
	if err != nil || id != "contact-form-abc123" {
		t.Fatalf("unexpected id %q err %v", id, err)
	}
	if _, err := registry.ID("Contact", " "); !errors.Is(err, registry.ErrUniqueIDRequired) {
		t.Fatalf("expected ErrUniqueIDRequired, got %v", err)
	}
}

func TestBuildIndex(t *testing.T) {
	index := registry.BuildIndex([]registry.Item{
		{Name: "zeta", Type: registry.TypeBlock, Title: "Zeta", Description: "z"},
		{Name: "alpha", Type: registry.TypeBlock, Title: "Alpha", Description: "a"},
	}, "https://forms.example.com")

	if index.Schema != registry.IndexSchemaURL || index.Name != "better-form" {
		t.Fatalf("unexpected header %+v", index)
	}
	if index.Items[0].Name != "alpha" || index.Items[1].Name != "zeta" {
		t.Fatalf("expected sorted entries, got %+v", index.Items)
	}
}

func TestItem_Clone(t *testing.T) {
	item := registry.Build("Contact", planner.FilePlan{}, deps.Resolve(contactConfig()))
	clone := item.Clone()
	clone.Files[0].Content = "changed"
	clone.Dependencies[0] = "changed"
	clone.Meta["version"] = "0"

	if item.Files[0].Content == "changed" || item.Dependencies[0] == "changed" || item.Meta["version"] == "0" {
		t.Fatalf("clone shares state with original")
	}
}

func TestItem_CloneKeepsEmptySlices(t *testing.T) {
	item := registry.Item{Name: "empty", Files: []registry.File{}, Dependencies: []string{}, RegistryDependencies: []string{}}
	clone := item.Clone()
	if clone.Files == nil || clone.Dependencies == nil || clone.RegistryDependencies == nil {
		t.Fatalf("empty slices became nil: %+v", clone)
	}
	if diff := cmp.Diff(item, clone); diff != "" {
		t.Fatalf("clone mismatch (-want +got):\n%s", diff)
	}

	raw, err := json.Marshal(clone)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"files":[]`) {
		t.Fatalf("files must stay a JSON array, got %s", raw)
	}
}
