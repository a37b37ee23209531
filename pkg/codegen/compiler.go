package codegen

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/goliatone/go-betterform/pkg/form"
	"github.com/goliatone/go-betterform/pkg/render/template"
	"github.com/goliatone/go-betterform/pkg/render/template/pongo"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

const (
	schemaTemplate    = "schema.ts"
	componentTemplate = "component.tsx"
)

// GeneratorName is exposed to templates as {{ generator }}.
const GeneratorName = "better-form"

// TemplatesFS exposes the built-in file skeletons, e.g. for copying them out
// as a starting point for overrides.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRenderer supplies the template renderer directly.
func WithRenderer(renderer template.Renderer) Option {
	return func(c *Compiler) {
		c.renderer = renderer
	}
}

// WithTemplateDir overrides the built-in skeletons with schema.ts.tpl and
// component.tsx.tpl files found in dir. Missing files fall back to the
// built-ins. Overrides can use {{ generator }} and the jsstring filter, which
// renders a value as a JavaScript literal.
func WithTemplateDir(dir string) Option {
	return func(c *Compiler) {
		c.templateDir = dir
	}
}

// Compiler renders compiled fields into complete schema and component files.
type Compiler struct {
	renderer    template.Renderer
	templateDir string
}

// ComponentOutput is the generated component file plus the imports it uses.
type ComponentOutput struct {
	Source  string    `json:"source"`
	Imports ImportSet `json:"imports"`
}

// New builds a Compiler. Without WithRenderer it renders the embedded
// skeletons through pongo2.
func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.renderer != nil {
		return c, nil
	}

	engineOpts := []pongo.Option{
		pongo.WithName("codegen"),
		pongo.WithGlobalData(map[string]any{"generator": GeneratorName}),
		pongo.WithFilter("jsstring", func(input any, _ any) (any, error) {
			return jsValue(input), nil
		}),
	}
	if c.templateDir != "" {
		engineOpts = append(engineOpts, pongo.WithBaseDir(c.templateDir))
	}
	engineOpts = append(engineOpts, pongo.WithFS(TemplatesFS()))
	engine, err := pongo.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("codegen: template engine: %w", err)
	}
	c.renderer = engine
	return c, nil
}

// Schema compiles cfg into a zod schema module.
func (c *Compiler) Schema(cfg form.Config) (string, error) {
	if c == nil || c.renderer == nil {
		return "", errors.New("codegen: compiler is nil")
	}
	analysis := Analyze(cfg)
	out, err := c.renderer.RenderTemplate(schemaTemplate, map[string]any{
		"schemaName": analysis.SchemaName,
		"typeName":   analysis.TypeName,
		"fields":     analysis.schemaLines(),
	})
	if err != nil {
		return "", fmt.Errorf("codegen: render schema: %w", err)
	}
	return out, nil
}

// Component compiles cfg into a react-hook-form component module.
func (c *Compiler) Component(cfg form.Config) (ComponentOutput, error) {
	if c == nil || c.renderer == nil {
		return ComponentOutput{}, errors.New("codegen: compiler is nil")
	}
	analysis := Analyze(cfg)
	out, err := c.renderer.RenderTemplate(componentTemplate, map[string]any{
		"imports":       ImportBlock(analysis.Imports, analysis.Slug, analysis.SchemaName, analysis.TypeName),
		"componentName": analysis.ComponentName,
		"schemaName":    analysis.SchemaName,
		"typeName":      analysis.TypeName,
		"defaultValues": analysis.defaultValueLines(),
		"fields":        analysis.snippets(),
	})
	if err != nil {
		return ComponentOutput{}, fmt.Errorf("codegen: render component: %w", err)
	}
	return ComponentOutput{Source: out, Imports: analysis.Imports}, nil
}

var (
	defaultOnce     sync.Once
	defaultCompiler *Compiler
	defaultErr      error
)

// Default returns the shared Compiler over the built-in skeletons.
func Default() (*Compiler, error) {
	defaultOnce.Do(func() {
		defaultCompiler, defaultErr = New()
	})
	return defaultCompiler, defaultErr
}

// CompileSchema compiles cfg with the default Compiler.
func CompileSchema(cfg form.Config) (string, error) {
	c, err := Default()
	if err != nil {
		return "", err
	}
	return c.Schema(cfg)
}

// CompileComponent compiles cfg with the default Compiler.
func CompileComponent(cfg form.Config) (ComponentOutput, error) {
	c, err := Default()
	if err != nil {
		return ComponentOutput{}, err
	}
	return c.Component(cfg)
}

// FormConfigSource renders cfg as a TypeScript module exporting it verbatim.
func FormConfigSource(cfg form.Config) (string, error) {
	data, err := jsonIndent(cfg)
	if err != nil {
		return "", fmt.Errorf("codegen: encode form config: %w", err)
	}
	return "export const formConfig = " + data + ";", nil
}
