package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// Import names a symbol the generated component imports.
type Import string

const (
	ImportButton          Import = "Button"
	ImportForm            Import = "Form"
	ImportFormControl     Import = "FormControl"
	ImportFormField       Import = "FormField"
	ImportFormItem        Import = "FormItem"
	ImportFormLabel       Import = "FormLabel"
	ImportFormMessage     Import = "FormMessage"
	ImportInput           Import = "Input"
	ImportTextarea        Import = "Textarea"
	ImportSelect          Import = "Select"
	ImportSelectContent   Import = "SelectContent"
	ImportSelectItem      Import = "SelectItem"
	ImportSelectTrigger   Import = "SelectTrigger"
	ImportSelectValue     Import = "SelectValue"
	ImportCheckbox        Import = "Checkbox"
	ImportRadioGroup      Import = "RadioGroup"
	ImportRadioGroupItem  Import = "RadioGroupItem"
	ImportSwitch          Import = "Switch"
	ImportLabel           Import = "Label"
	ImportPhoneInput      Import = "PhoneInput"
	ImportCountryDropdown Import = "CountryDropdown"
)

const projectComponentsPath = "@/components/better-form/components"

// ImportSet is an immutable set of imports. Add returns a new set and never
// modifies its receiver, so per-field sets can be unioned in any order.
type ImportSet struct {
	names map[Import]struct{}
}

// NewImportSet builds a set from names.
func NewImportSet(names ...Import) ImportSet {
	return ImportSet{}.Add(names...)
}

// Add returns a set holding the receiver's imports plus names.
func (s ImportSet) Add(names ...Import) ImportSet {
	out := make(map[Import]struct{}, len(s.names)+len(names))
	for name := range s.names {
		out[name] = struct{}{}
	}
	for _, name := range names {
		out[name] = struct{}{}
	}
	return ImportSet{names: out}
}

// Union returns a set holding the imports of both sets.
func (s ImportSet) Union(other ImportSet) ImportSet {
	return s.Add(other.List()...)
}

// Has reports whether name is in the set.
func (s ImportSet) Has(name Import) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of imports.
func (s ImportSet) Len() int { return len(s.names) }

// List returns the imports sorted by name.
func (s ImportSet) List() []Import {
	out := make([]Import, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s ImportSet) MarshalJSON() ([]byte, error) {
	names := s.List()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = jsString(string(name))
	}
	return []byte("[" + strings.Join(parts, ",") + "]"), nil
}

type importGroup struct {
	names   []Import
	module  string
	render  func(names []string, module string) string
	anyOnly bool
}

func singleLine(names []string, module string) string {
	return fmt.Sprintf("import { %s } from '%s';", strings.Join(names, ", "), module)
}

func multiLine(names []string, module string) string {
	return fmt.Sprintf("import {\n  %s\n} from '%s';", strings.Join(names, ",\n  "), module)
}

// importGroups fixes the order import lines appear in. Groups marked anyOnly
// import all of their names whenever one of them is needed.
var importGroups = []importGroup{
	{names: []Import{ImportButton}, module: "@/components/ui/button", render: singleLine},
	{names: []Import{ImportForm, ImportFormControl, ImportFormField, ImportFormItem, ImportFormLabel, ImportFormMessage}, module: "@/components/ui/form", render: multiLine},
	{names: []Import{ImportInput}, module: "@/components/ui/input", render: singleLine},
	{names: []Import{ImportTextarea}, module: "@/components/ui/textarea", render: singleLine},
	{names: []Import{ImportSelect, ImportSelectContent, ImportSelectItem, ImportSelectTrigger, ImportSelectValue}, module: "@/components/ui/select", render: singleLine},
	{names: []Import{ImportCheckbox}, module: "@/components/ui/checkbox", render: singleLine},
	{names: []Import{ImportRadioGroup, ImportRadioGroupItem}, module: "@/components/ui/radio-group", render: singleLine, anyOnly: true},
	{names: []Import{ImportSwitch}, module: "@/components/ui/switch", render: singleLine},
	{names: []Import{ImportLabel}, module: "@/components/ui/label", render: singleLine},
	{names: []Import{ImportPhoneInput}, module: projectComponentsPath + "/phone-input", render: singleLine},
	{names: []Import{ImportCountryDropdown}, module: projectComponentsPath + "/country-dropdown", render: singleLine},
}

// ImportBlock renders the header of the component file: the client directive,
// the form-state imports, one line per needed primitive module, and finally
// the schema import relative to the form directory.
func ImportBlock(imports ImportSet, slug, schemaName, typeName string) string {
	lines := []string{
		"'use client';",
		"",
		"import { useForm } from 'react-hook-form';",
		"import { zodResolver } from '@hookform/resolvers/zod';",
	}

	for _, group := range importGroups {
		var names []string
		for _, name := range group.names {
			if imports.Has(name) {
				names = append(names, string(name))
			}
		}
		if len(names) == 0 {
			continue
		}
		if group.anyOnly {
			names = names[:0]
			for _, name := range group.names {
				names = append(names, string(name))
			}
		}
		lines = append(lines, group.render(names, group.module))
	}

	schemaModule := "../schema"
	if slug != "" {
		schemaModule += "/" + slug
	}
	lines = append(lines, fmt.Sprintf("import { %s, %s } from '%s';", schemaName, typeName, schemaModule))
	return strings.Join(lines, "\n")
}
