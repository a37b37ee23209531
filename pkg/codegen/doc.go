// Package codegen compiles a form.Config into generated source text: a zod
// validation schema and a react-hook-form component built on shadcn/ui
// primitives.
//
// Both compilers share one dispatch table keyed on (field type, input type),
// so a field kind defines its schema expression, its JSX control, its default
// value and the imports it needs in a single place. Compilation is pure and
// total over the closed field vocabulary: unknown kinds degrade to a plain
// string schema and a text input rather than failing.
package codegen
