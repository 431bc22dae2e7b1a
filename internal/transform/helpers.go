package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/models"
)

// description accumulates the "Label: value" lines of a description field.
type description struct {
	lines []string
}

// raw appends value as is when it is present.
func (d *description) raw(value any) {
	if truthy(value) {
		d.lines = append(d.lines, models.FormatScalar(value))
	}
}

// add appends "label: value" when value is present.
func (d *description) add(label string, value any) {
	if truthy(value) {
		d.lines = append(d.lines, label+": "+models.FormatScalar(value))
	}
}

// addf appends a preformatted line.
func (d *description) addf(format string, args ...any) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}

// addJSON appends value rendered as indented JSON when it is present.
func (d *description) addJSON(label string, value any) {
	if truthy(value) {
		d.lines = append(d.lines, label+": "+indentJSON(value))
	}
}

func (d *description) String() string {
	return strings.TrimSpace(strings.Join(d.lines, "\n"))
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case uint64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case *models.Map:
		return v.Len() > 0
	}
	return true
}

func indentJSON(value any) string {
	return encodeJSON(value, "  ")
}

func compactJSON(value any) string {
	return encodeJSON(value, "")
}

func encodeJSON(value any, indent string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(value); err != nil {
		return models.FormatScalar(value)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// tags renders a list of {key, value} mappings as "k:v, k:v".
func tags(value any) string {
	var parts []string
	for _, item := range models.FlattenKeyed(value) {
		parts = append(parts, item.Text("key")+":"+item.Text("value"))
	}
	return strings.Join(parts, ", ")
}

// joined renders the string entries of a list attribute separated by ", ".
func joined(attrs *models.Map, key string) string {
	return strings.Join(attrs.Strings(key), ", ")
}

// leadingNumber parses the leading digits of value, allowing one decimal
// point, and truncates the result to an integer. Absent values parse as 0.
// ok is false when a present value has no leading number.
func leadingNumber(value any) (n int, ok bool) {
	switch v := value.(type) {
	case nil:
		return 0, true
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	case bool:
		return 0, false
	}
	text := strings.TrimSpace(models.FormatScalar(value))
	if text == "" {
		return 0, true
	}
	var digits strings.Builder
	dot := false
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			continue
		}
		if r == '.' && !dot {
			dot = true
			digits.WriteRune(r)
			continue
		}
		break
	}
	parsed, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, false
	}
	return int(parsed), true
}

// numeric widens decoded numbers to float64.
func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// typeName names the YAML type of a decoded value.
func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float"
	case []any:
		return "sequence"
	case *models.Map:
		return "mapping"
	}
	return fmt.Sprintf("%T", value)
}

func strPtr(s string) *string {
	return &s
}

// optionalText returns a pointer to the rendered value, or nil when absent.
func optionalText(value any) *string {
	if !truthy(value) {
		return nil
	}
	return strPtr(models.FormatScalar(value))
}

// scalarOrNil keeps present values and turns empty strings into nil.
func scalarOrNil(value any) any {
	if s, ok := value.(string); ok && s == "" {
		return nil
	}
	return value
}
