package form_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-betterform/pkg/form"
)

func TestLoadFile_YAML(t *testing.T) {
	cfg, err := form.LoadFile(filepath.Join("testdata", "contact.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Name != "Contact Form" {
		t.Fatalf("unexpected name %q", cfg.Name)
	}
	want := []string{"full_name", "email", "topic", "subscribe"}
	if diff := cmp.Diff(want, cfg.FieldIDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if cfg.Fields[3].Label != "Subscribe" {
		t.Fatalf("expected derived label, got %q", cfg.Fields[3].Label)
	}
	email := cfg.Fields[1].Rules().Email
	if email == nil || email.Preset != form.EmailStandard {
		t.Fatalf("expected email rules, got %+v", email)
	}
	if min := cfg.Fields[0].Rules().Min; min == nil || *min != 2 {
		t.Fatalf("expected min=2, got %v", min)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestEncodeDecode_JSON(t *testing.T) {
	cfg, err := form.LoadFile(filepath.Join("testdata", "contact.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var buf bytes.Buffer
	if err := form.Encode(&buf, cfg, form.FormatJSON); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := form.Decode(buf.Bytes(), form.FormatJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(cfg.FieldIDs(), decoded.FieldIDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if decoded.Fields[2].Options[1].ValueString() != "support" {
		t.Fatalf("unexpected option %+v", decoded.Fields[2].Options[1])
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := form.Decode([]byte("{"), form.FormatJSON); err == nil {
		t.Fatal("expected json error")
	}
	if _, err := form.Decode([]byte("a: ["), form.FormatYAML); err == nil {
		t.Fatal("expected yaml error")
	}
	if _, err := form.Decode([]byte("{}"), "toml"); err == nil {
		t.Fatal("expected unsupported format error")
	}
	if _, err := form.LoadFile(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestFormatFromPath(t *testing.T) {
	if form.FormatFromPath("a/b.YML") != form.FormatYAML {
		t.Fatal("expected yaml")
	}
	if form.FormatFromPath("a/b.json") != form.FormatJSON {
		t.Fatal("expected json")
	}
}
