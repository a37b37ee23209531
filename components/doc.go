// Package components embeds the source of the composite UI components that
// generated forms depend on but no public registry hosts. Their content is
// shipped verbatim inside registry bundles.
package components
