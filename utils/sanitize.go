package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// CleanText strips markup from user supplied text and trims it. Entities are
// decoded before the policy runs so encoded markup is stripped too; the
// result is the escaped policy output.
func CleanText(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(html.UnescapeString(input)))
}
