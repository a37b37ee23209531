package components

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCatalog_Sources(t *testing.T) {
	if diff := cmp.Diff([]string{"country-dropdown", "phone-input"}, Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	exports := map[string]string{
		"phone-input":      "export { PhoneInput };",
		"country-dropdown": "export const CountryDropdown",
	}
	for name, export := range exports {
		src, err := Source(name)
		if err != nil {
			t.Fatalf("source %s: %v", name, err)
		}
		if !strings.Contains(src, export) {
			t.Fatalf("%s does not export its component", name)
		}
	}

	if _, err := Source("date-picker"); err == nil {
		t.Fatal("expected error for unknown component")
	}
}

func TestCatalog_EveryEntryIsEmbedded(t *testing.T) {
	for _, name := range Names() {
		c, _ := Lookup(name)
		if _, err := fs.Stat(FS(), c.File); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}
