package codegen

import "github.com/goliatone/go-betterform/pkg/form"

type kindKey struct {
	Type  form.FieldType
	Input form.InputType
}

// fieldKind is everything the compilers need to know about one variant of the
// field vocabulary.
type fieldKind struct {
	schema       func(form.Field) string
	control      func(form.Field) string
	defaultValue func(form.Field) string
	imports      []Import
}

var selectImports = []Import{ImportSelect, ImportSelectContent, ImportSelectItem, ImportSelectTrigger, ImportSelectValue}

// kinds is the single dispatch table shared by the schema compiler, the
// component compiler and import analysis. Input fields are keyed by their
// input type; an input type without its own entry uses the (input, "") entry.
var kinds = map[kindKey]fieldKind{
	{form.FieldInput, ""}:                 {schema: stringSchema, control: inputControl, defaultValue: literalDefault, imports: []Import{ImportInput}},
	{form.FieldInput, form.InputEmail}:    {schema: emailSchema, control: inputControl, defaultValue: literalDefault, imports: []Import{ImportInput}},
	{form.FieldInput, form.InputPassword}: {schema: passwordSchema, control: inputControl, defaultValue: literalDefault, imports: []Import{ImportInput}},
	{form.FieldInput, form.InputNumber}:   {schema: numberSchema, control: inputControl, defaultValue: numberDefault, imports: []Import{ImportInput}},
	{form.FieldInput, form.InputURL}:      {schema: urlSchema, control: inputControl, defaultValue: literalDefault, imports: []Import{ImportInput}},
	{form.FieldTextarea, ""}:              {schema: stringSchema, control: textareaControl, defaultValue: literalDefault, imports: []Import{ImportTextarea}},
	{form.FieldSelect, ""}:                {schema: choiceSchema, control: selectControl, defaultValue: literalDefault, imports: selectImports},
	{form.FieldRadio, ""}:                 {schema: choiceSchema, control: radioControl, defaultValue: literalDefault, imports: []Import{ImportRadioGroup, ImportRadioGroupItem, ImportLabel}},
	{form.FieldCheckbox, ""}:              {schema: booleanSchema, control: checkboxControl, defaultValue: falseDefault, imports: []Import{ImportCheckbox, ImportLabel}},
	{form.FieldSwitch, ""}:                {schema: booleanSchema, control: switchControl, defaultValue: falseDefault, imports: []Import{ImportSwitch, ImportLabel}},
	{form.FieldPhone, ""}:                 {schema: phoneSchema, control: phoneControl, defaultValue: literalDefault, imports: []Import{ImportPhoneInput}},
	{form.FieldCountry, ""}:               {schema: countrySchema, control: countryControl, defaultValue: literalDefault, imports: []Import{ImportCountryDropdown}},
}

// fallbackKind serves field types outside the vocabulary.
var fallbackKind = fieldKind{
	schema:       stringSchema,
	control:      fallbackControl,
	defaultValue: literalDefault,
	imports:      []Import{ImportInput},
}

func kindOf(field form.Field) fieldKind {
	var input form.InputType
	if field.Type == form.FieldInput {
		input = field.InputType
	}
	if kind, ok := kinds[kindKey{field.Type, input}]; ok {
		return kind
	}
	if kind, ok := kinds[kindKey{field.Type, ""}]; ok {
		return kind
	}
	return fallbackKind
}
