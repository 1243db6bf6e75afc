// Package formfield holds the rules that decide which form controls carry
// submittable data and how their type is reported.
package formfield

import "strings"

// Tags are the control elements enumerated inside a form, in selector form.
const Tags = "input, select, textarea"

// nonDataTypes are input types that trigger actions instead of carrying a value.
var nonDataTypes = map[string]struct{}{
	"submit": {},
	"button": {},
	"reset":  {},
	"image":  {},
}

// IsNonDataType reports whether an explicit type attribute names a
// submit/button/reset/image control. Comparison ignores ASCII case.
func IsNonDataType(typeAttr string) bool {
	_, ok := nonDataTypes[strings.ToLower(strings.TrimSpace(typeAttr))]
	return ok
}

// Capturable reports whether a control contributes a key/value pair to a
// submission: it needs a non-empty name and must not be an action control.
func Capturable(name, typeAttr string) bool {
	if name == "" {
		return false
	}
	return !IsNonDataType(typeAttr)
}

// Type returns the explicit type attribute, or the lower-cased tag name when
// the attribute is absent or blank.
func Type(typeAttr, tagName string) string {
	if t := strings.TrimSpace(typeAttr); t != "" {
		return t
	}
	return strings.ToLower(tagName)
}
