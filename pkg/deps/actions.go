package deps

import (
	"strings"
)

// Manager is a JavaScript package manager commands are rendered for.
type Manager struct {
	Label      string
	ShadcnExec string
	Install    string
}

// Managers lists the supported package managers in display order.
var Managers = []Manager{
	{Label: "npm", ShadcnExec: "npx shadcn@latest add", Install: "npm install"},
	{Label: "pnpm", ShadcnExec: "pnpm dlx shadcn@latest add", Install: "pnpm add"},
	{Label: "yarn", ShadcnExec: "yarn dlx shadcn@latest add", Install: "yarn add"},
	{Label: "bun", ShadcnExec: "bunx shadcn@latest add", Install: "bun add"},
}

const (
	actionShadcnID   = "shadcn-components"
	actionPackagesID = "npm-packages"
	actionBundleID   = "registry-bundle"
)

// BuildActions groups the plan's primitives and packages into install steps.
// Steps with nothing to install are omitted. Composite components are shipped
// inside the bundle and never produce a command.
func BuildActions(plan Plan) []Action {
	var actions []Action
	if slugs := plan.ShadcnSlugs(); len(slugs) > 0 {
		actions = append(actions, Action{
			ID:          actionShadcnID,
			Type:        ActionRegistryAdd,
			Label:       "Add shadcn/ui components",
			Description: "Installs the UI primitives the form is built from.",
			Commands:    commands(func(m Manager) string { return m.ShadcnExec }, slugs),
		})
	}
	if names := plan.PackageNames(); len(names) > 0 {
		actions = append(actions, Action{
			ID:          actionPackagesID,
			Type:        ActionPackageInstall,
			Label:       "Install packages",
			Description: "Installs validation, form state and field widget packages.",
			Commands:    commands(func(m Manager) string { return m.Install }, names),
		})
	}
	return actions
}

// BundleAction is the single step that installs a stored registry bundle
// from its URL, pulling in every file and dependency it declares.
func BundleAction(url string) Action {
	return Action{
		ID:          actionBundleID,
		Type:        ActionRegistryAdd,
		Label:       "Add the generated form",
		Description: "Installs the schema, form and bundled components from the registry URL.",
		Commands:    commands(func(m Manager) string { return m.ShadcnExec }, []string{url}),
	}
}

func commands(prefix func(Manager) string, args []string) []Command {
	joined := strings.Join(args, " ")
	out := make([]Command, len(Managers))
	for i, manager := range Managers {
		out[i] = Command{Label: manager.Label, Command: prefix(manager) + " " + joined}
	}
	return out
}
