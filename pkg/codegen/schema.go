package codegen

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-betterform/pkg/form"
)

const (
	schemaEmail         = "z.string().email()"
	schemaEmailRFC5322  = `z.string().regex(/^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$/)`
	schemaURL           = "z.string().url()"
	schemaBoolean       = "z.boolean()"
	schemaString        = "z.string()"
	schemaPhoneE164     = `z.string().regex(/^\+?[1-9]\d{1,14}$/, 'Invalid phone number (E.164)')`
	schemaCountryAlpha3 = `z.string().regex(/^[A-Z]{3}$/, 'Invalid country code (alpha-3)')`

	requiredToggleRefinement = `.refine((value) => value === true, { message: "This field is required" })`
)

// CompileFieldSchema returns the zod expression validating a single field,
// including the optional wrapper for fields that are not required.
func CompileFieldSchema(field form.Field) string {
	return applyRequirement(kindOf(field).schema(field), field)
}

func applyRequirement(schema string, field form.Field) string {
	switch {
	case !field.Required():
		return schema + ".optional()"
	case field.IsToggle():
		return schema + requiredToggleRefinement
	default:
		return schema
	}
}

func regexCall(pattern, message string) string {
	if message == "" {
		return fmt.Sprintf(".regex(new RegExp(%s))", jsString(pattern))
	}
	return fmt.Sprintf(".regex(new RegExp(%s), %s)", jsString(pattern), jsString(message))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func stringSchema(field form.Field) string {
	rules := field.Rules()
	schema := schemaString
	if rules.Min != nil && *rules.Min != 0 {
		schema += fmt.Sprintf(".min(%d)", *rules.Min)
	}
	if rules.Max != nil && *rules.Max != 0 {
		schema += fmt.Sprintf(".max(%d)", *rules.Max)
	}
	if rules.Pattern != "" {
		schema += regexCall(rules.Pattern, "")
	}
	return schema
}

func emailSchema(field form.Field) string {
	email := field.Rules().Email
	if email == nil {
		return schemaEmail
	}
	switch email.Preset {
	case form.EmailRFC5322:
		return schemaEmailRFC5322
	case form.EmailCustom:
		if email.Pattern != "" {
			return schemaString + regexCall(email.Pattern, orDefault(email.Message, "Invalid email"))
		}
	}
	return schemaEmail
}

type passwordRequirements struct {
	upper, lower, number, special bool
}

var passwordPresets = map[form.PasswordPreset]passwordRequirements{
	form.PasswordWeak:   {},
	form.PasswordMedium: {lower: true, number: true},
	form.PasswordStrong: {upper: true, lower: true, number: true, special: true},
}

func passwordSchema(field form.Field) string {
	rules := field.Rules()
	pwd := form.PasswordRules{}
	if rules.Password != nil {
		pwd = *rules.Password
	}

	schema := schemaString
	if min := passwordMinLength(pwd, rules); min > 0 {
		schema += fmt.Sprintf(".min(%d)", min)
	}

	preset := pwd.Preset
	if preset == "" {
		preset = form.PasswordMedium
	}
	if preset == form.PasswordCustom && pwd.Pattern != "" {
		return schema + regexCall(pwd.Pattern, orDefault(pwd.Message, "Invalid password"))
	}

	implied := passwordPresets[preset]
	var parts []string
	if flag(pwd.RequireUppercase, implied.upper) {
		parts = append(parts, "(?=.*[A-Z])")
	}
	if flag(pwd.RequireLowercase, implied.lower) {
		parts = append(parts, "(?=.*[a-z])")
	}
	if flag(pwd.RequireNumber, implied.number) {
		parts = append(parts, "(?=.*[0-9])")
	}
	if flag(pwd.RequireSpecial, implied.special) {
		parts = append(parts, "(?=.*[^A-Za-z0-9])")
	}
	if len(parts) == 0 {
		return schema
	}
	pattern := "^" + strings.Join(parts, "") + ".+$"
	return schema + regexCall(pattern, orDefault(pwd.Message, "Password does not meet requirements"))
}

func passwordMinLength(pwd form.PasswordRules, rules form.ValidationRules) int {
	if pwd.MinLength != nil && *pwd.MinLength > 0 {
		return *pwd.MinLength
	}
	if rules.Min != nil && *rules.Min > 0 {
		return *rules.Min
	}
	return 0
}

func flag(explicit *bool, implied bool) bool {
	if explicit != nil {
		return *explicit
	}
	return implied
}

func numberSchema(field form.Field) string {
	schema := "z.coerce.number()"
	num := field.Rules().Number
	if num == nil {
		return schema
	}
	if num.Min != nil {
		schema += fmt.Sprintf(".min(%s)", formatFloat(*num.Min))
	}
	if num.Max != nil {
		schema += fmt.Sprintf(".max(%s)", formatFloat(*num.Max))
	}
	if num.Integer {
		schema += ".int()"
	}
	return schema
}

func urlSchema(field form.Field) string {
	url := field.Rules().URL
	if url != nil && url.Preset == form.URLCustom && url.Pattern != "" {
		return schemaString + regexCall(url.Pattern, orDefault(url.Message, "Invalid URL"))
	}
	return schemaURL
}

func choiceSchema(field form.Field) string {
	if len(field.Options) == 0 {
		return schemaString
	}
	values := make([]string, len(field.Options))
	for i, option := range field.Options {
		values[i] = jsString(option.ValueString())
	}
	return fmt.Sprintf("z.enum([%s])", strings.Join(values, ", "))
}

func booleanSchema(form.Field) string { return schemaBoolean }

func phoneSchema(field form.Field) string {
	phone := field.Rules().Phone
	if phone != nil && phone.Preset == form.PhoneCustom && phone.Pattern != "" {
		return schemaString + regexCall(phone.Pattern, orDefault(phone.Message, "Invalid phone number"))
	}
	return schemaPhoneE164
}

func countrySchema(form.Field) string { return schemaCountryAlpha3 }
