package codegen

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	braceEscaper   = strings.NewReplacer("{", "&#123;", "}", "&#125;")
	lineCollapser  = regexp.MustCompile(`[\r\n\x{2028}\x{2029}]+`)
	identifierExpr = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// jsxText makes user-authored text safe to embed as JSX children or inside a
// double-quoted JSX attribute. Markup is stripped, the remaining text is
// entity encoded, and braces are encoded so they never open an expression.
func jsxText(raw string) string {
	if raw == "" {
		return ""
	}
	return braceEscaper.Replace(textSanitizer().Sanitize(raw))
}

// commentText flattens text onto one line for use after a // comment.
func commentText(raw string) string {
	return strings.TrimSpace(lineCollapser.ReplaceAllString(raw, " "))
}

// jsString encodes s as a double-quoted JavaScript string literal.
func jsString(s string) string {
	return jsValue(s)
}

// jsValue encodes v as a JavaScript literal. HTML characters are left as is
// since the output is source code, not markup.
func jsValue(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// objectKey renders id as an object literal key, quoting it when it is not a
// valid identifier.
func objectKey(id string) string {
	if identifierExpr.MatchString(id) {
		return id
	}
	return jsString(id)
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// numericLiteral returns v as a number literal when v holds a number.
func numericLiteral(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return formatInt(n), true
	case int32:
		return formatInt(int(n)), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float32:
		return formatFloat(float64(n)), true
	case float64:
		return formatFloat(n), true
	case json.Number:
		return n.String(), true
	default:
		return "", false
	}
}

func jsonIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
