package store

import (
	"sync"
	"time"

	"github.com/goliatone/go-betterform/pkg/registry"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func sampleItem(name string) registry.Item {
	return registry.Item{
		Schema:               registry.ItemSchemaURL,
		Name:                 name,
		Type:                 registry.TypeBlock,
		Title:                name,
		Description:          "A form component for " + name,
		Dependencies:         []string{"@hookform/resolvers", "react-hook-form", "zod"},
		RegistryDependencies: []string{"button", "form", "input"},
		Files: []registry.File{
			{Path: "components/better-form/schema/" + name + ".ts", Content: "export {}\n", Type: registry.TypeLib, Target: "components/better-form/schema/" + name + ".ts"},
		},
		Meta: map[string]any{"generatedBy": registry.RegistryName, "version": registry.GeneratorVersion},
	}
}
