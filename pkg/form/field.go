package form

import (
	"fmt"
	"strconv"
)

// Rules returns the field's validation rules, or the zero value when none
// were authored.
func (f Field) Rules() ValidationRules {
	if f.Validation == nil {
		return ValidationRules{}
	}
	return *f.Validation
}

// Required reports whether the field must be filled in.
func (f Field) Required() bool {
	return f.Validation != nil && f.Validation.Required
}

// EffectiveInputType resolves the input refinement, defaulting to text. Non
// input fields always report an empty input type.
func (f Field) EffectiveInputType() InputType {
	if f.Type != FieldInput {
		return ""
	}
	if f.InputType == "" {
		return InputText
	}
	return f.InputType
}

// IsToggle reports whether the field is boolean-valued.
func (f Field) IsToggle() bool {
	return f.Type == FieldCheckbox || f.Type == FieldSwitch
}

// IsChoice reports whether the field picks from Options.
func (f Field) IsChoice() bool {
	return f.Type == FieldSelect || f.Type == FieldRadio
}

// ShowsLabel reports whether the label is rendered above the control. Toggles
// render theirs inline next to the control instead.
func (f Field) ShowsLabel() bool {
	return !f.IsToggle()
}

// ValueString renders an option value the way it appears in generated code.
func (o Option) ValueString() string {
	switch v := o.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// FieldIDs returns the ids of every field in order.
func (c Config) FieldIDs() []string {
	ids := make([]string, len(c.Fields))
	for i, field := range c.Fields {
		ids[i] = field.ID
	}
	return ids
}

// Field looks up a field by id.
func (c Config) Field(id string) (Field, bool) {
	for _, field := range c.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Clone returns a copy whose fields, options and rules can be edited without
// touching c. Option and default values are shared; they hold scalars.
func (c Config) Clone() Config {
	out := c
	if c.Fields != nil {
		out.Fields = make([]Field, len(c.Fields))
		for i, field := range c.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// Clone copies f along with its options, validation and conditional rule.
func (f Field) Clone() Field {
	out := f
	if f.Options != nil {
		out.Options = make([]Option, len(f.Options))
		copy(out.Options, f.Options)
	}
	if f.Validation != nil {
		rules := f.Validation.Clone()
		out.Validation = &rules
	}
	if f.Conditional != nil {
		cond := *f.Conditional
		out.Conditional = &cond
	}
	return out
}

// Clone copies r and every sub-rule it points to.
func (r ValidationRules) Clone() ValidationRules {
	out := r
	out.Min = clonePtr(r.Min)
	out.Max = clonePtr(r.Max)
	out.Email = clonePtr(r.Email)
	out.Number = clonePtr(r.Number)
	out.URL = clonePtr(r.URL)
	out.Phone = clonePtr(r.Phone)
	if r.Number != nil {
		out.Number.Min = clonePtr(r.Number.Min)
		out.Number.Max = clonePtr(r.Number.Max)
	}
	if r.Password != nil {
		pw := *r.Password
		pw.MinLength = clonePtr(pw.MinLength)
		pw.RequireUppercase = clonePtr(pw.RequireUppercase)
		pw.RequireLowercase = clonePtr(pw.RequireLowercase)
		pw.RequireNumber = clonePtr(pw.RequireNumber)
		pw.RequireSpecial = clonePtr(pw.RequireSpecial)
		out.Password = &pw
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
