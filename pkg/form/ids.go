package form

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultSlug    = "form"
	defaultFieldID = "field"
)

var (
	slugSeparators    = regexp.MustCompile(`[^a-z0-9]+`)
	fieldIDDisallowed = regexp.MustCompile(`[^a-z0-9_\s]`)
	fieldIDSpaces     = regexp.MustCompile(`\s+`)
	fieldIDUnderscore = regexp.MustCompile(`_+`)
)

// foldAccents strips combining marks so "Café" folds to "Cafe". A new
// transformer is built per call because transform chains carry state.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Slugify derives the stable kebab-case identifier used for generated file
// paths and registry item names. Empty input yields "form".
func Slugify(name string) string {
	slug := strings.ToLower(foldAccents(strings.TrimSpace(name)))
	slug = slugSeparators.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return defaultSlug
	}
	return slug
}

// LabelToFieldID converts a label to a snake_case field id, e.g.
// "Email Address" becomes "email_address". Ids never start with a digit so
// they stay usable as object keys in generated code.
func LabelToFieldID(label string) string {
	id := strings.ToLower(strings.TrimSpace(foldAccents(label)))
	id = fieldIDDisallowed.ReplaceAllString(id, "")
	id = fieldIDSpaces.ReplaceAllString(id, "_")
	id = fieldIDUnderscore.ReplaceAllString(id, "_")
	id = strings.Trim(id, "_")
	if id != "" && id[0] >= '0' && id[0] <= '9' {
		id = defaultFieldID + "_" + id
	}
	return id
}

// GenerateFieldID derives an id from label that does not collide with any of
// existing. Collisions get a numeric suffix starting at 2.
func GenerateFieldID(label string, existing []string) string {
	base := LabelToFieldID(label)
	if base == "" {
		base = defaultFieldID
	}

	taken := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}
	if _, ok := taken[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// ComponentName turns a form name into the identifier used for the generated
// component: whitespace and other non identifier characters are dropped.
func ComponentName(name string) string {
	var b strings.Builder
	for _, r := range foldAccents(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return "Generated"
	}
	if out[0] >= '0' && out[0] <= '9' {
		return "Form" + out
	}
	return out
}
