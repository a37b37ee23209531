package registry

// JSON shapes below are consumed by the shadcn CLI. Field names are part of
// that contract.

const (
	ItemSchemaURL  = "https://ui.shadcn.com/schema/registry-item.json"
	IndexSchemaURL = "https://ui.shadcn.com/schema/registry.json"

	TypeBlock     = "registry:block"
	TypeLib       = "registry:lib"
	TypeComponent = "registry:component"
	TypeUI        = "registry:ui"

	RegistryName     = "better-form"
	GeneratorVersion = "1.2.0"
)

// File is one file shipped inside an Item.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Type    string `json:"type"`
	Target  string `json:"target,omitempty"`
}

// Item is a self-contained registry bundle for one generated form.
type Item struct {
	Schema               string         `json:"$schema,omitempty"`
	Name                 string         `json:"name"`
	Type                 string         `json:"type"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	Dependencies         []string       `json:"dependencies,omitempty"`
	RegistryDependencies []string       `json:"registryDependencies,omitempty"`
	Files                []File         `json:"files"`
	Meta                 map[string]any `json:"meta,omitempty"`
}

// IndexEntry summarises an Item inside an Index.
type IndexEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Index is a registry.json listing items.
type Index struct {
	Schema   string       `json:"$schema"`
	Name     string       `json:"name"`
	Homepage string       `json:"homepage"`
	Items    []IndexEntry `json:"items"`
}

// Clone returns a deep copy of the item so stores can hand out values that
// callers may modify freely.
func (i Item) Clone() Item {
	out := i
	if i.Dependencies != nil {
		out.Dependencies = make([]string, len(i.Dependencies))
		copy(out.Dependencies, i.Dependencies)
	}
	if i.RegistryDependencies != nil {
		out.RegistryDependencies = make([]string, len(i.RegistryDependencies))
		copy(out.RegistryDependencies, i.RegistryDependencies)
	}
	if i.Files != nil {
		out.Files = make([]File, len(i.Files))
		copy(out.Files, i.Files)
	}
	if i.Meta != nil {
		out.Meta = make(map[string]any, len(i.Meta))
		for k, v := range i.Meta {
			out.Meta[k] = v
		}
	}
	return out
}
