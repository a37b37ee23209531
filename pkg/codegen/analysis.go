package codegen

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-betterform/pkg/form"
)

// FieldPlan is the compiled view of one field.
type FieldPlan struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	Schema       string    `json:"schema"`
	Control      string    `json:"control"`
	ShowLabel    bool      `json:"showLabel"`
	DefaultValue string    `json:"defaultValue"`
	Snippet      string    `json:"snippet"`
	Imports      ImportSet `json:"imports"`
}

// Analysis holds every derived name and per-field plan both compilers use.
type Analysis struct {
	ComponentName string      `json:"componentName"`
	SchemaName    string      `json:"schemaName"`
	TypeName      string      `json:"typeName"`
	Slug          string      `json:"slug"`
	Fields        []FieldPlan `json:"fields"`
	Imports       ImportSet   `json:"imports"`
}

// baselineImports are needed by every generated component regardless of its
// fields: the submit button and the Form provider.
var baselineImports = []Import{ImportButton, ImportForm}

var fieldScaffoldImports = []Import{ImportFormControl, ImportFormField, ImportFormItem, ImportFormMessage}

// PlanField compiles one field in isolation.
func PlanField(field form.Field) FieldPlan {
	kind := kindOf(field)
	showLabel := field.ShowsLabel()
	control := kind.control(field)

	imports := NewImportSet(fieldScaffoldImports...).Add(kind.imports...)
	if showLabel {
		imports = imports.Add(ImportFormLabel)
	}

	return FieldPlan{
		ID:           field.ID,
		Label:        field.Label,
		Schema:       applyRequirement(kind.schema(field), field),
		Control:      control,
		ShowLabel:    showLabel,
		DefaultValue: defaultValueLine(field, kind.defaultValue(field)),
		Snippet:      formFieldSnippet(field, control, showLabel),
		Imports:      imports,
	}
}

// Analyze plans every field in config order and unions their imports with
// the baseline set.
func Analyze(cfg form.Config) Analysis {
	component := form.ComponentName(cfg.Name)
	analysis := Analysis{
		ComponentName: component,
		SchemaName:    lowerFirst(component) + "Schema",
		TypeName:      component + "Data",
		Slug:          form.Slugify(cfg.Name),
		Fields:        make([]FieldPlan, 0, len(cfg.Fields)),
		Imports:       NewImportSet(baselineImports...),
	}
	for _, field := range cfg.Fields {
		plan := PlanField(field)
		analysis.Fields = append(analysis.Fields, plan)
		analysis.Imports = analysis.Imports.Union(plan.Imports)
	}
	return analysis
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func (a Analysis) schemaLines() string {
	lines := make([]string, len(a.Fields))
	for i, field := range a.Fields {
		lines[i] = "  " + objectKey(field.ID) + ": " + field.Schema + ", // " + commentText(field.Label)
	}
	return strings.Join(lines, "\n")
}

func (a Analysis) defaultValueLines() string {
	lines := make([]string, len(a.Fields))
	for i, field := range a.Fields {
		lines[i] = field.DefaultValue
	}
	return strings.Join(lines, "\n")
}

func (a Analysis) snippets() string {
	lines := make([]string, len(a.Fields))
	for i, field := range a.Fields {
		lines[i] = field.Snippet
	}
	return strings.Join(lines, "\n")
}
