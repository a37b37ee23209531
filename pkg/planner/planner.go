package planner

import (
	"fmt"
	"path"

	"github.com/goliatone/go-betterform/components"
	"github.com/goliatone/go-betterform/pkg/codegen"
	"github.com/goliatone/go-betterform/pkg/deps"
	"github.com/goliatone/go-betterform/pkg/form"
)

// Root directories of generated files inside a consuming project.
const (
	BaseDir       = "components/better-form"
	SchemaDir     = BaseDir + "/schema"
	FormDir       = BaseDir + "/form"
	ComponentsDir = BaseDir + "/components"
)

// GeneratedFile is one file of the plan.
type GeneratedFile struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language"`
	Path        string `json:"path"`
	DisplayPath string `json:"displayPath"`
	Code        string `json:"code"`
}

// FilePlan is the complete set of files generated for a form.
type FilePlan struct {
	Schema           GeneratedFile   `json:"schema"`
	Form             GeneratedFile   `json:"form"`
	CustomComponents []GeneratedFile `json:"customComponents"`
}

// Files returns every file of the plan, schema and form first.
func (p FilePlan) Files() []GeneratedFile {
	out := make([]GeneratedFile, 0, 2+len(p.CustomComponents))
	out = append(out, p.Schema, p.Form)
	return append(out, p.CustomComponents...)
}

// SchemaPath is the location of the schema file for a form slug.
func SchemaPath(slug string) string { return path.Join(SchemaDir, slug+".ts") }

// FormPath is the location of the form component file for a form slug.
func FormPath(slug string) string { return path.Join(FormDir, slug+".tsx") }

// ComponentPath is the location of a bundled composite component.
func ComponentPath(name string) string { return path.Join(ComponentsDir, name+".tsx") }

func displayPath(p string) string { return "@/" + p }

// Compiler is the code generation seam the planner renders through.
type Compiler interface {
	Schema(cfg form.Config) (string, error)
	Component(cfg form.Config) (codegen.ComponentOutput, error)
}

// Option configures a Planner.
type Option func(*Planner)

// WithCompiler swaps the code generator.
func WithCompiler(c Compiler) Option {
	return func(p *Planner) {
		if c != nil {
			p.compiler = c
		}
	}
}

// WithSource swaps the lookup used for composite component content.
func WithSource(source func(name string) (string, error)) Option {
	return func(p *Planner) {
		if source != nil {
			p.source = source
		}
	}
}

// Planner assembles FilePlans. It holds no mutable state.
type Planner struct {
	compiler Compiler
	source   func(name string) (string, error)
}

// New builds a Planner over the default compiler and embedded components.
func New(opts ...Option) (*Planner, error) {
	p := &Planner{source: components.Source}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.compiler == nil {
		c, err := codegen.Default()
		if err != nil {
			return nil, fmt.Errorf("planner: compiler: %w", err)
		}
		p.compiler = c
	}
	return p, nil
}

// Plan compiles cfg and lays the results out under stable paths derived from
// the form name. The custom component set follows the dependency plan.
func (p *Planner) Plan(cfg form.Config) (FilePlan, error) {
	return p.PlanWith(cfg, deps.Resolve(cfg))
}

// PlanWith is Plan with an already resolved dependency plan.
func (p *Planner) PlanWith(cfg form.Config, depPlan deps.Plan) (FilePlan, error) {
	slug := form.Slugify(cfg.Name)

	schema, err := p.compiler.Schema(cfg)
	if err != nil {
		return FilePlan{}, fmt.Errorf("planner: schema: %w", err)
	}
	component, err := p.compiler.Component(cfg)
	if err != nil {
		return FilePlan{}, fmt.Errorf("planner: component: %w", err)
	}

	schemaPath := SchemaPath(slug)
	formPath := FormPath(slug)
	plan := FilePlan{
		Schema: GeneratedFile{
			ID:          "schema",
			Label:       "Schema",
			Description: "Zod validation schema and inferred data type.",
			Language:    "ts",
			Path:        schemaPath,
			DisplayPath: displayPath(schemaPath),
			Code:        schema,
		},
		Form: GeneratedFile{
			ID:          "form",
			Label:       "Form",
			Description: "React component wired to react-hook-form.",
			Language:    "tsx",
			Path:        formPath,
			DisplayPath: displayPath(formPath),
			Code:        component.Source,
		},
		CustomComponents: make([]GeneratedFile, 0, len(depPlan.ProjectComponents)),
	}

	for _, dep := range depPlan.ProjectComponents {
		code, err := p.source(dep.Name)
		if err != nil {
			return FilePlan{}, fmt.Errorf("planner: component %s: %w", dep.Name, err)
		}
		label, description := dep.Name, dep.Reason
		if entry, ok := components.Lookup(dep.Name); ok {
			label, description = entry.Label, entry.Description
		}
		componentPath := ComponentPath(dep.Name)
		plan.CustomComponents = append(plan.CustomComponents, GeneratedFile{
			ID:          dep.Name,
			Label:       label,
			Description: description,
			Language:    "tsx",
			Path:        componentPath,
			DisplayPath: displayPath(componentPath),
			Code:        code,
		})
	}
	return plan, nil
}

// Plan runs a default Planner.
func Plan(cfg form.Config) (FilePlan, error) {
	p, err := New()
	if err != nil {
		return FilePlan{}, err
	}
	return p.Plan(cfg)
}
