package form

// FieldType is the closed set of controls a form can contain. Adding a value
// here requires a matching entry in the codegen and deps dispatch tables.
type FieldType string

const (
	FieldInput    FieldType = "input"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldSwitch   FieldType = "switch"
	FieldPhone    FieldType = "phone"
	FieldCountry  FieldType = "country"
)

// InputType refines FieldInput.
type InputType string

const (
	InputText     InputType = "text"
	InputEmail    InputType = "email"
	InputPassword InputType = "password"
	InputNumber   InputType = "number"
	InputURL      InputType = "url"
	InputSearch   InputType = "search"
	InputTel      InputType = "tel"
)

// FieldTypes lists every supported field type in palette order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldInput, FieldTextarea, FieldSelect, FieldCheckbox,
		FieldRadio, FieldSwitch, FieldPhone, FieldCountry,
	}
}

// InputTypes lists every supported input refinement in palette order.
func InputTypes() []InputType {
	return []InputType{InputText, InputEmail, InputPassword, InputNumber, InputURL, InputSearch, InputTel}
}

// Known reports whether t belongs to the closed field vocabulary.
func (t FieldType) Known() bool {
	for _, candidate := range FieldTypes() {
		if candidate == t {
			return true
		}
	}
	return false
}

// Known reports whether t belongs to the closed input vocabulary.
func (t InputType) Known() bool {
	for _, candidate := range InputTypes() {
		if candidate == t {
			return true
		}
	}
	return false
}

type EmailPreset string

const (
	EmailStandard EmailPreset = "standard"
	EmailRFC5322  EmailPreset = "rfc5322"
	EmailCustom   EmailPreset = "custom"
)

type PasswordPreset string

const (
	PasswordWeak   PasswordPreset = "weak"
	PasswordMedium PasswordPreset = "medium"
	PasswordStrong PasswordPreset = "strong"
	PasswordCustom PasswordPreset = "custom"
)

type URLPreset string

const (
	URLStandard URLPreset = "standard"
	URLCustom   URLPreset = "custom"
)

type PhonePreset string

const (
	PhoneE164   PhonePreset = "e164"
	PhoneCustom PhonePreset = "custom"
)

// EmailRules applies to input fields with the email input type.
type EmailRules struct {
	Preset  EmailPreset `json:"preset,omitempty" yaml:"preset,omitempty"`
	Pattern string      `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
}

// PasswordRules applies to input fields with the password input type. The
// Require* flags are pointers so an explicit false can override a preset.
type PasswordRules struct {
	Preset           PasswordPreset `json:"preset,omitempty" yaml:"preset,omitempty"`
	MinLength        *int           `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	RequireUppercase *bool          `json:"requireUppercase,omitempty" yaml:"requireUppercase,omitempty"`
	RequireLowercase *bool          `json:"requireLowercase,omitempty" yaml:"requireLowercase,omitempty"`
	RequireNumber    *bool          `json:"requireNumber,omitempty" yaml:"requireNumber,omitempty"`
	RequireSpecial   *bool          `json:"requireSpecial,omitempty" yaml:"requireSpecial,omitempty"`
	Pattern          string         `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message          string         `json:"message,omitempty" yaml:"message,omitempty"`
}

// NumberRules applies to input fields with the number input type.
type NumberRules struct {
	Integer bool     `json:"integer,omitempty" yaml:"integer,omitempty"`
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// URLRules applies to input fields with the url input type.
type URLRules struct {
	Preset  URLPreset `json:"preset,omitempty" yaml:"preset,omitempty"`
	Pattern string    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
}

// PhoneRules applies to phone fields.
type PhoneRules struct {
	Preset  PhonePreset `json:"preset,omitempty" yaml:"preset,omitempty"`
	Pattern string      `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
}

// ValidationRules holds the base constraints plus the per-type sub-rules. A
// sub-rule is ignored unless it matches the field's type and input type.
type ValidationRules struct {
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Min      *int   `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *int   `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern  string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Custom   string `json:"custom,omitempty" yaml:"custom,omitempty"`

	Email    *EmailRules    `json:"email,omitempty" yaml:"email,omitempty"`
	Password *PasswordRules `json:"password,omitempty" yaml:"password,omitempty"`
	Number   *NumberRules   `json:"number,omitempty" yaml:"number,omitempty"`
	URL      *URLRules      `json:"url,omitempty" yaml:"url,omitempty"`
	Phone    *PhoneRules    `json:"phone,omitempty" yaml:"phone,omitempty"`
}

type ConditionOperator string

const (
	ConditionEquals ConditionOperator = "equals"
	ConditionNot    ConditionOperator = "not"
	ConditionGT     ConditionOperator = "gt"
	ConditionLT     ConditionOperator = "lt"
)

// ConditionalRule is carried through the model for the editor; the compilers
// do not emit visibility logic for it.
type ConditionalRule struct {
	FieldID  string            `json:"fieldId" yaml:"fieldId"`
	Operator ConditionOperator `json:"operator" yaml:"operator"`
	Value    any               `json:"value,omitempty" yaml:"value,omitempty"`
}

// Option is a single choice for select and radio fields.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// Field is one control inside a form.
type Field struct {
	ID           string           `json:"id" yaml:"id"`
	Type         FieldType        `json:"type" yaml:"type"`
	InputType    InputType        `json:"inputType,omitempty" yaml:"inputType,omitempty"`
	Label        string           `json:"label" yaml:"label"`
	Placeholder  string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	DefaultValue any              `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Options      []Option         `json:"options,omitempty" yaml:"options,omitempty"`
	Validation   *ValidationRules `json:"validation,omitempty" yaml:"validation,omitempty"`
	Conditional  *ConditionalRule `json:"conditional,omitempty" yaml:"conditional,omitempty"`
}

// Config is the user-authored description of a form: metadata plus an ordered
// list of fields.
type Config struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}
