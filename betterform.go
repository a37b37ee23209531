package betterform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-betterform/pkg/deps"
	"github.com/goliatone/go-betterform/pkg/form"
	"github.com/goliatone/go-betterform/pkg/planner"
	"github.com/goliatone/go-betterform/pkg/registry"
	"github.com/goliatone/go-betterform/pkg/store"
)

// Config is the user-authored form description; alias exported via the root
// package for convenience.
type Config = form.Config

// Field is one control within a Config.
type Field = form.Field

// Item is the registry bundle consumed by the shadcn CLI.
type Item = registry.Item

// Bundle is everything generated for one form.
type Bundle struct {
	Config       form.Config      `json:"config"`
	Dependencies deps.Plan        `json:"dependencies"`
	Files        planner.FilePlan `json:"files"`
	Item         registry.Item    `json:"registryItem"`
}

// Option configures Export and Publish.
type Option func(*exporter)

type exporter struct {
	planner *planner.Planner
}

// WithPlanner swaps the file planner, for example to use custom templates.
func WithPlanner(p *planner.Planner) Option {
	return func(e *exporter) {
		if p != nil {
			e.planner = p
		}
	}
}

// Export normalizes and validates cfg, resolves its dependencies, plans the
// generated files and packages them as a registry item.
func Export(cfg form.Config, opts ...Option) (Bundle, error) {
	e := exporter{}
	for _, opt := range opts {
		if opt != nil {
			opt(&e)
		}
	}
	if e.planner == nil {
		p, err := planner.New()
		if err != nil {
			return Bundle{}, err
		}
		e.planner = p
	}

	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Bundle{}, fmt.Errorf("betterform: %w", err)
	}

	depPlan := deps.Resolve(cfg)
	files, err := e.planner.PlanWith(cfg, depPlan)
	if err != nil {
		return Bundle{}, fmt.Errorf("betterform: plan files: %w", err)
	}

	return Bundle{
		Config:       cfg,
		Dependencies: depPlan,
		Files:        files,
		Item:         registry.Build(cfg.Name, files, depPlan),
	}, nil
}

// Publish exports cfg and stores the item under the registry id derived from
// the form name and uniqueID.
func Publish(ctx context.Context, st *store.Store, cfg form.Config, uniqueID string, opts ...Option) (Bundle, store.Receipt, error) {
	bundle, err := Export(cfg, opts...)
	if err != nil {
		return Bundle{}, store.Receipt{}, err
	}
	id, err := registry.ID(bundle.Config.Name, uniqueID)
	if err != nil {
		return Bundle{}, store.Receipt{}, err
	}
	receipt, err := st.Put(ctx, id, bundle.Item)
	if err != nil {
		return Bundle{}, store.Receipt{}, err
	}
	return bundle, receipt, nil
}

// LoadFile reads a JSON or YAML form config.
func LoadFile(path string) (form.Config, error) {
	return form.LoadFile(path)
}
