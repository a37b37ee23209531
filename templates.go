package betterform

import (
	"io/fs"

	"github.com/goliatone/go-betterform/components"
	"github.com/goliatone/go-betterform/pkg/codegen"
)

// EmbeddedTemplates exposes the built-in file skeletons so callers can copy
// and override them with codegen.WithTemplateDir.
func EmbeddedTemplates() fs.FS {
	return codegen.TemplatesFS()
}

// ComponentsFS exposes the bundled composite component sources.
func ComponentsFS() fs.FS {
	return components.FS()
}
