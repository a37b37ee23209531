package deps

import (
	"sort"

	"github.com/goliatone/go-betterform/pkg/form"
)

// Identifiers of the bundled composite components.
const (
	ComponentPhoneInput      = "phone-input"
	ComponentCountryDropdown = "country-dropdown"
)

// Reasons are looked up per identifier rather than carried by whichever field
// added the dependency first, so a plan never depends on field order.
var shadcnReasons = map[string]string{
	"button":      "Submit button",
	"form":        "Form wrapper and field bindings",
	"input":       "Text inputs",
	"textarea":    "Multi-line text",
	"select":      "Dropdown selects",
	"checkbox":    "Checkboxes",
	"radio-group": "Radio groups",
	"switch":      "Toggle switches",
	"label":       "Inline labels for toggles and radios",
	"command":     "Searchable lists for phone and country pickers",
	"popover":     "Picker popovers",
	"scroll-area": "Scrollable country code list",
}

var packageReasons = map[string]string{
	"zod":                      "Validation schema",
	"@hookform/resolvers":      "Zod resolver for RHF",
	"react-hook-form":          "Form state management",
	"react-phone-number-input": "Phone input UI",
	"react-circle-flags":       "Country flags",
	"country-data-list":        "Country dataset (ISO 3166)",
}

var componentReasons = map[string]string{
	ComponentPhoneInput:      "Phone number field with country code picker",
	ComponentCountryDropdown: "Searchable country selector",
}

var (
	baselineShadcn   = []string{"button", "form"}
	baselinePackages = []string{"zod", "@hookform/resolvers", "react-hook-form"}
)

type requirement struct {
	shadcn     []string
	packages   []string
	components []string
}

var requirements = map[form.FieldType]requirement{
	form.FieldInput:    {shadcn: []string{"input"}},
	form.FieldTextarea: {shadcn: []string{"textarea"}},
	form.FieldSelect:   {shadcn: []string{"select"}},
	form.FieldCheckbox: {shadcn: []string{"checkbox", "label"}},
	form.FieldRadio:    {shadcn: []string{"radio-group", "label"}},
	form.FieldSwitch:   {shadcn: []string{"switch", "label"}},
	form.FieldPhone: {
		shadcn:     []string{"button", "command", "popover", "scroll-area", "input"},
		packages:   []string{"react-phone-number-input"},
		components: []string{ComponentPhoneInput},
	},
	form.FieldCountry: {
		shadcn:     []string{"button", "command", "popover"},
		packages:   []string{"react-circle-flags", "country-data-list"},
		components: []string{ComponentCountryDropdown},
	},
}

type identSet map[string]struct{}

func (s identSet) add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s identSet) sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Resolve computes the dependency plan for cfg. The baseline is always
// present; each list is deduplicated and sorted by identifier. Unknown field
// types add nothing beyond the baseline.
func Resolve(cfg form.Config) Plan {
	shadcn := identSet{}
	packages := identSet{}
	components := identSet{}
	shadcn.add(baselineShadcn...)
	packages.add(baselinePackages...)

	for _, field := range cfg.Fields {
		req := requirements[field.Type]
		shadcn.add(req.shadcn...)
		packages.add(req.packages...)
		components.add(req.components...)
	}

	plan := Plan{
		Shadcn:            make([]ShadcnDependency, 0, len(shadcn)),
		Packages:          make([]PackageDependency, 0, len(packages)),
		ProjectComponents: make([]ProjectComponentDependency, 0, len(components)),
	}
	for _, slug := range shadcn.sorted() {
		plan.Shadcn = append(plan.Shadcn, ShadcnDependency{Slug: slug, Reason: shadcnReasons[slug]})
	}
	for _, name := range packages.sorted() {
		plan.Packages = append(plan.Packages, PackageDependency{Name: name, Reason: packageReasons[name]})
	}
	for _, name := range components.sorted() {
		plan.ProjectComponents = append(plan.ProjectComponents, ProjectComponentDependency{Name: name, Reason: componentReasons[name]})
	}
	plan.Actions = BuildActions(plan)
	return plan
}
