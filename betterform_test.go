package betterform_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	betterform "github.com/goliatone/go-betterform"
	"github.com/goliatone/go-betterform/pkg/form"
	"github.com/goliatone/go-betterform/pkg/store"
)

func contactConfig() form.Config {
	return form.Config{
		Name: "Contact",
		Fields: []form.Field{{
			ID:        "email",
			Type:      form.FieldInput,
			InputType: form.InputEmail,
			Label:     "Email",
			Validation: &form.ValidationRules{
				Required: true,
				Email:    &form.EmailRules{Preset: form.EmailStandard},
			},
		}},
	}
}

func TestExport_ContactScenario(t *testing.T) {
	bundle, err := betterform.Export(contactConfig())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if !strings.Contains(bundle.Files.Schema.Code, "  email: z.string().email(), // Email\n") {
		t.Fatalf("expected required email rule in schema:\n%s", bundle.Files.Schema.Code)
	}
	if diff := cmp.Diff([]string{"button", "form", "input"}, bundle.Item.RegistryDependencies); diff != "" {
		t.Fatalf("registryDependencies mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"@hookform/resolvers", "react-hook-form", "zod"}, bundle.Item.Dependencies); diff != "" {
		t.Fatalf("dependencies mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(bundle.Dependencies.ShadcnSlugs(), bundle.Item.RegistryDependencies); diff != "" {
		t.Fatalf("registry dependencies should mirror the shadcn plan:\n%s", diff)
	}
	if bundle.Item.Name != "contact" || len(bundle.Item.Files) != 2 {
		t.Fatalf("unexpected item %+v", bundle.Item)
	}
}

func TestExport_IsDeterministic(t *testing.T) {
	first, err := betterform.Export(contactConfig())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	second, err := betterform.Export(contactConfig())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("export not deterministic:\n%s", diff)
	}
}

func TestExport_RejectsInvalidConfig(t *testing.T) {
	_, err := betterform.Export(form.Config{Fields: []form.Field{{ID: "a", Type: "slider"}}})
	if !errors.Is(err, form.ErrNameRequired) || !errors.Is(err, form.ErrUnknownFieldType) {
		t.Fatalf("expected aggregated validation errors, got %v", err)
	}
}

func TestPublish_RoundTrip(t *testing.T) {
	st, err := store.New(store.NewMemoryBackend())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	ctx := context.Background()

	bundle, receipt, err := betterform.Publish(ctx, st, contactConfig(), "s1")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if receipt.RegistryID != "contact-s1" || receipt.URL != "/r/contact-s1.json" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	rec, err := st.Fetch(ctx, "contact-s1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if diff := cmp.Diff(bundle.Item, rec.Item); diff != "" {
		t.Fatalf("stored item mismatch:\n%s", diff)
	}

	if _, _, err := betterform.Publish(ctx, st, contactConfig(), ""); err == nil {
		t.Fatal("expected an error without a unique id")
	}
}

func TestEmbeddedAssets(t *testing.T) {
	if _, err := betterform.EmbeddedTemplates().Open("schema.ts.tpl"); err != nil {
		t.Fatalf("schema template missing: %v", err)
	}
	if _, err := betterform.ComponentsFS().Open("phone-input.tsx"); err != nil {
		t.Fatalf("phone-input source missing: %v", err)
	}
}
