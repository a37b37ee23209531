// Package template holds the seam code generators render through. The
// pongo subpackage provides the pongo2-backed engine; anything satisfying
// Renderer can replace it.
package template
