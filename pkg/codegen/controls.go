package codegen

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-betterform/pkg/form"
)

const defaultSelectPlaceholder = "Select an option"

func inputControl(field form.Field) string {
	inputType := field.InputType
	if inputType == "" {
		inputType = form.InputText
	}
	return fmt.Sprintf(`<Input type="%s" placeholder="%s" {...field} />`, jsxText(string(inputType)), jsxText(field.Placeholder))
}

func textareaControl(field form.Field) string {
	return fmt.Sprintf(`<Textarea placeholder="%s" {...field} />`, jsxText(field.Placeholder))
}

func fallbackControl(field form.Field) string {
	return fmt.Sprintf(`<Input placeholder="%s" {...field} />`, jsxText(field.Placeholder))
}

func selectControl(field form.Field) string {
	items := make([]string, len(field.Options))
	for i, option := range field.Options {
		items[i] = fmt.Sprintf(`                    <SelectItem value={%s}>%s</SelectItem>`,
			jsString(option.ValueString()), jsxText(option.Label))
	}
	placeholder := field.Placeholder
	if placeholder == "" {
		placeholder = defaultSelectPlaceholder
	}
	return `<Select onValueChange={field.onChange} defaultValue={field.value}>
                  <SelectTrigger>
                    <SelectValue placeholder="` + jsxText(placeholder) + `" />
                  </SelectTrigger>
                  <SelectContent>
` + strings.Join(items, "\n") + `
                  </SelectContent>
                </Select>`
}

func radioControl(field form.Field) string {
	items := make([]string, len(field.Options))
	for i, option := range field.Options {
		items[i] = `                    <div className="flex items-center space-x-2">
                      <RadioGroupItem value={` + jsString(option.ValueString()) + `} />
                      <Label>` + jsxText(option.Label) + `</Label>
                    </div>`
	}
	return `<RadioGroup onValueChange={field.onChange} defaultValue={field.value}>
` + strings.Join(items, "\n") + `
                </RadioGroup>`
}

func toggleControl(component string, field form.Field) string {
	return `<div className="flex items-center space-x-2">
                  <` + component + ` checked={field.value} onCheckedChange={field.onChange} />
                  <Label>` + jsxText(field.Label) + `</Label>
                </div>`
}

func checkboxControl(field form.Field) string { return toggleControl("Checkbox", field) }

func switchControl(field form.Field) string { return toggleControl("Switch", field) }

func phoneControl(form.Field) string {
	return `<PhoneInput value={field.value} onChange={field.onChange} />`
}

func countryControl(form.Field) string {
	return `<CountryDropdown defaultValue={field.value} onChange={(country) => field.onChange(country.alpha3)} />`
}

// literalDefault renders the authored default, or an empty string.
func literalDefault(field form.Field) string {
	if field.DefaultValue == nil {
		return `""`
	}
	return jsValue(field.DefaultValue)
}

func numberDefault(field form.Field) string {
	if literal, ok := numericLiteral(field.DefaultValue); ok {
		return literal
	}
	return "undefined"
}

func falseDefault(form.Field) string { return "false" }

func defaultValueLine(field form.Field, literal string) string {
	return fmt.Sprintf("    %s: %s,", objectKey(field.ID), literal)
}

// formFieldSnippet wraps a control in the FormField/FormItem scaffolding.
func formFieldSnippet(field form.Field, control string, showLabel bool) string {
	label := ""
	if showLabel {
		label = "<FormLabel>" + jsxText(field.Label) + "</FormLabel>"
	}
	return `        <FormField
          control={form.control}
          name="` + jsxText(field.ID) + `"
          render={({ field }) => (
            <FormItem>
              ` + label + `
              <FormControl>
                ` + control + `
              </FormControl>
              <FormMessage />
            </FormItem>
          )}
        />`
}
