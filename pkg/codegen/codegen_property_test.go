package codegen_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-betterform/pkg/codegen"
	"github.com/goliatone/go-betterform/pkg/form"
)

// fieldCatalog covers every kind in the vocabulary plus an unknown type.
var fieldCatalog = []form.Field{
	{Type: form.FieldInput, Label: "Name"},
	{Type: form.FieldInput, InputType: form.InputEmail, Label: "Email"},
	{Type: form.FieldInput, InputType: form.InputPassword, Label: "Password"},
	{Type: form.FieldInput, InputType: form.InputNumber, Label: "Age"},
	{Type: form.FieldInput, InputType: form.InputURL, Label: "Website"},
	{Type: form.FieldTextarea, Label: "About"},
	{Type: form.FieldSelect, Label: "Plan", Options: []form.Option{{Label: "A", Value: "a"}, {Label: "B", Value: "b"}}},
	{Type: form.FieldRadio, Label: "Size", Options: []form.Option{{Label: "S", Value: "s"}}},
	{Type: form.FieldCheckbox, Label: "Terms"},
	{Type: form.FieldSwitch, Label: "Newsletter"},
	{Type: form.FieldPhone, Label: "Phone"},
	{Type: form.FieldCountry, Label: "Country"},
	{Type: "rating", Label: "Rating"},
}

func configFromIndexes(indexes []int, requiredMask []bool) form.Config {
	cfg := form.Config{Name: "Generated Form"}
	for i, idx := range indexes {
		field := fieldCatalog[idx]
		if i < len(requiredMask) && requiredMask[i] {
			field.Validation = &form.ValidationRules{Required: true}
		}
		cfg = cfg.AddField(field)
	}
	return cfg
}

func genIndexes() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(fieldCatalog)-1))
}

func TestCompilerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("compilation is deterministic", prop.ForAll(
		func(indexes []int, mask []bool) bool {
			cfg := configFromIndexes(indexes, mask)
			schemaA, errA := codegen.CompileSchema(cfg)
			schemaB, errB := codegen.CompileSchema(cfg)
			compA, errC := codegen.CompileComponent(cfg)
			compB, errD := codegen.CompileComponent(cfg)
			if errA != nil || errB != nil || errC != nil || errD != nil {
				return false
			}
			return schemaA == schemaB && compA.Source == compB.Source
		},
		genIndexes(),
		gen.SliceOf(gen.Bool()),
	))

	properties.Property("schema lines follow field order", prop.ForAll(
		func(indexes []int) bool {
			cfg := configFromIndexes(indexes, nil)
			schema, err := codegen.CompileSchema(cfg)
			if err != nil {
				return false
			}
			last := -1
			for _, id := range cfg.FieldIDs() {
				pos := strings.Index(schema, "\n  "+id+": ")
				if pos <= last {
					return false
				}
				last = pos
			}
			return true
		},
		genIndexes(),
	))

	properties.Property("required toggles only change the requirement suffix", prop.ForAll(
		func(idx int) bool {
			field := fieldCatalog[idx]
			field.ID = "f"

			optional := field
			optional.Validation = &form.ValidationRules{Required: false}
			mandatory := field
			mandatory.Validation = &form.ValidationRules{Required: true}

			loose := codegen.CompileFieldSchema(optional)
			strict := codegen.CompileFieldSchema(mandatory)

			base := strings.TrimSuffix(loose, ".optional()")
			if base == loose {
				return false
			}
			if field.IsToggle() {
				return strict == base+`.refine((value) => value === true, { message: "This field is required" })`
			}
			return strict == base
		},
		gen.IntRange(0, len(fieldCatalog)-1),
	))

	properties.TestingRun(t)
}
