package popup

import (
	"regexp"
	"strings"
)

// PanelPrefix prefixes every popup panel id.
const PanelPrefix = "popup-"

var (
	// The ECMAScript \s class: RE2's \s covers ASCII only.
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
	disallowed    = regexp.MustCompile(`[^a-z0-9-]`)
)

// Normalize turns a product name into an id-safe slug: lowercase, whitespace
// runs collapsed to one dash, anything outside [a-z0-9-] dropped.
func Normalize(name string) string {
	s := strings.ToLower(name)
	s = whitespaceRun.ReplaceAllString(s, "-")
	return disallowed.ReplaceAllString(s, "")
}

// PanelID returns the popup panel id for a product name.
func PanelID(name string) string {
	return PanelPrefix + Normalize(name)
}
