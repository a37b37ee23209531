package deps

// ShadcnDependency is a UI primitive installed from the shadcn registry.
type ShadcnDependency struct {
	Slug   string `json:"slug"`
	Reason string `json:"reason"`
}

// PackageDependency is a published npm package.
type PackageDependency struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ProjectComponentDependency is a composite component shipped as file content
// inside the bundle. It has no registry presence of its own.
type ProjectComponentDependency struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ActionType distinguishes registry installs from package installs.
type ActionType string

const (
	ActionRegistryAdd    ActionType = "registry-add"
	ActionPackageInstall ActionType = "package-install"
)

// Command is one package-manager variant of an install step.
type Command struct {
	Label   string `json:"label"`
	Command string `json:"command"`
}

// Action is a human-facing install step with one command per manager.
type Action struct {
	ID          string     `json:"id"`
	Type        ActionType `json:"type"`
	Label       string     `json:"label"`
	Description string     `json:"description,omitempty"`
	Commands    []Command  `json:"commands"`
}

// Plan is everything a consuming project needs to install for a form.
type Plan struct {
	Shadcn            []ShadcnDependency           `json:"shadcn"`
	Packages          []PackageDependency          `json:"packages"`
	ProjectComponents []ProjectComponentDependency `json:"projectComponents"`
	Actions           []Action                     `json:"actions"`
}

// ShadcnSlugs returns the primitive slugs in plan order.
func (p Plan) ShadcnSlugs() []string {
	out := make([]string, len(p.Shadcn))
	for i, dep := range p.Shadcn {
		out[i] = dep.Slug
	}
	return out
}

// PackageNames returns the package names in plan order.
func (p Plan) PackageNames() []string {
	out := make([]string, len(p.Packages))
	for i, dep := range p.Packages {
		out[i] = dep.Name
	}
	return out
}

// ProjectComponentNames returns the composite component names in plan order.
func (p Plan) ProjectComponentNames() []string {
	out := make([]string, len(p.ProjectComponents))
	for i, dep := range p.ProjectComponents {
		out[i] = dep.Name
	}
	return out
}
