package cv

import "strings"

// Normalize lower-cases text, replaces invalid UTF-8 and collapses every run
// of whitespace into a single space.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToValidUTF8(text, " ")
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
