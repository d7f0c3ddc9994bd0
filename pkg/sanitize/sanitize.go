package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Clean strips all markup from s and trims surrounding whitespace. Entities
// are unescaped afterwards so that plain text like "Tom & Jerry" round-trips
// unchanged.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
