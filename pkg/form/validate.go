package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNameRequired         = errors.New("form: name is required")
	ErrFieldIDRequired      = errors.New("form: field id is required")
	ErrDuplicateFieldID     = errors.New("form: duplicate field id")
	ErrUnknownFieldType     = errors.New("form: unknown field type")
	ErrUnknownInputType     = errors.New("form: unknown input type")
	ErrOptionsRequired      = errors.New("form: options are required")
	ErrDuplicateOptionValue = errors.New("form: duplicate option value")
)

// ValidationErrors aggregates every structural problem found in a Config.
// errors.Is matches any of the wrapped sentinels.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, err := range v {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	return []error(v)
}

// Validate checks the structural invariants the compilers rely on upstream:
// a name, unique field ids, known types, and non-empty unique options for
// choice fields. The compilers themselves stay total and never call this.
func (c Config) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, ErrNameRequired)
	}

	seen := make(map[string]struct{}, len(c.Fields))
	for idx, field := range c.Fields {
		ref := fieldRef(idx, field)
		if field.ID == "" {
			errs = append(errs, fmt.Errorf("%w (%s)", ErrFieldIDRequired, ref))
		} else if _, dup := seen[field.ID]; dup {
			errs = append(errs, fmt.Errorf("%w %q (%s)", ErrDuplicateFieldID, field.ID, ref))
		} else {
			seen[field.ID] = struct{}{}
		}

		if !field.Type.Known() {
			errs = append(errs, fmt.Errorf("%w %q (%s)", ErrUnknownFieldType, field.Type, ref))
		}
		if field.Type == FieldInput && field.InputType != "" && !field.InputType.Known() {
			errs = append(errs, fmt.Errorf("%w %q (%s)", ErrUnknownInputType, field.InputType, ref))
		}

		if field.IsChoice() {
			errs = append(errs, validateOptions(field, ref)...)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateOptions(field Field, ref string) []error {
	if len(field.Options) == 0 {
		return []error{fmt.Errorf("%w for %s field (%s)", ErrOptionsRequired, field.Type, ref)}
	}
	var errs []error
	values := make(map[string]struct{}, len(field.Options))
	for _, option := range field.Options {
		value := option.ValueString()
		if _, dup := values[value]; dup {
			errs = append(errs, fmt.Errorf("%w %q (%s)", ErrDuplicateOptionValue, value, ref))
			continue
		}
		values[value] = struct{}{}
	}
	return errs
}

func fieldRef(idx int, field Field) string {
	if field.ID != "" {
		return fmt.Sprintf("fields[%d] %s", idx, field.ID)
	}
	return fmt.Sprintf("fields[%d]", idx)
}
