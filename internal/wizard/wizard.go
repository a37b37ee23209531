// Package wizard builds a form config interactively.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-betterform/pkg/form"
)

// Run asks for form metadata and then fields until the user stops. The
// returned config is normalized and validated.
func Run(ctx context.Context, driver PromptDriver) (form.Config, error) {
	if driver == nil {
		return form.Config{}, errors.New("wizard: prompt driver is required")
	}
	if err := driver.Info(ctx, "Describe the form. Field ids are derived from labels."); err != nil {
		return form.Config{}, err
	}

	name, err := driver.Input(ctx, InputConfig{Message: "Form name", Validator: required("form name")})
	if err != nil {
		return form.Config{}, err
	}
	description, err := driver.Input(ctx, InputConfig{Message: "Description (optional)"})
	if err != nil {
		return form.Config{}, err
	}

	cfg := form.Config{}.WithMeta(strings.TrimSpace(name), strings.TrimSpace(description))
	cfg.ID = form.Slugify(cfg.Name)

	for {
		more, err := driver.Confirm(ctx, ConfirmConfig{
			Message: addFieldMessage(len(cfg.Fields)),
			Default: len(cfg.Fields) == 0,
		})
		if err != nil {
			return form.Config{}, err
		}
		if !more {
			break
		}
		field, err := askField(ctx, driver)
		if err != nil {
			return form.Config{}, err
		}
		cfg = cfg.AddField(field)
	}

	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return form.Config{}, fmt.Errorf("wizard: %w", err)
	}
	return cfg, nil
}

func addFieldMessage(count int) string {
	if count == 0 {
		return "Add a field?"
	}
	return fmt.Sprintf("Add another field? (%d so far)", count)
}

func askField(ctx context.Context, driver PromptDriver) (form.Field, error) {
	label, err := driver.Input(ctx, InputConfig{Message: "Field label", Validator: required("label")})
	if err != nil {
		return form.Field{}, err
	}
	field := form.Field{Label: strings.TrimSpace(label)}

	types := form.FieldTypes()
	idx, err := driver.Select(ctx, SelectConfig{Message: "Field type", Options: typeNames(types)})
	if err != nil {
		return form.Field{}, err
	}
	if idx < 0 || idx >= len(types) {
		return form.Field{}, fmt.Errorf("wizard: invalid field type selection %d", idx)
	}
	field.Type = types[idx]

	if field.Type == form.FieldInput {
		inputs := form.InputTypes()
		idx, err := driver.Select(ctx, SelectConfig{Message: "Input type", Options: inputNames(inputs)})
		if err != nil {
			return form.Field{}, err
		}
		if idx >= 0 && idx < len(inputs) {
			field.InputType = inputs[idx]
		}
	}

	if field.IsChoice() {
		raw, err := driver.Input(ctx, InputConfig{
			Message:   "Options",
			Help:      "Comma separated, optionally label=value, e.g. Sales=sales, Support",
			Validator: required("options"),
		})
		if err != nil {
			return form.Field{}, err
		}
		field.Options = ParseOptions(raw)
	}

	if !field.IsToggle() {
		placeholder, err := driver.Input(ctx, InputConfig{Message: "Placeholder (optional)"})
		if err != nil {
			return form.Field{}, err
		}
		field.Placeholder = strings.TrimSpace(placeholder)
	}

	req, err := driver.Confirm(ctx, ConfirmConfig{Message: "Required?"})
	if err != nil {
		return form.Field{}, err
	}
	if req {
		field.Validation = &form.ValidationRules{Required: true}
	}
	return field, nil
}

// ParseOptions reads "Label=value, Other" into options. A missing value is
// derived from the label.
func ParseOptions(raw string) []form.Option {
	var out []form.Option
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, value, found := strings.Cut(part, "=")
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		if !found || value == "" {
			value = form.LabelToFieldID(label)
		}
		out = append(out, form.Option{Label: label, Value: value})
	}
	return out
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func typeNames(types []form.FieldType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func inputNames(types []form.InputType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
