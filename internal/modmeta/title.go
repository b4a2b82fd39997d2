package modmeta

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var wordSeparatorRe = regexp.MustCompile(`[-_]+`)

// FormatTitle turns an identifier-style package name into a display title:
// hyphen and underscore runs become single spaces and every word gets a
// capitalized first letter. Already human-readable input passes through
// with only the capitalization applied.
func FormatTitle(name string) string {
	s := wordSeparatorRe.ReplaceAllString(name, " ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// A Caser is stateful and not safe for concurrent use, so each call
	// gets its own. NoLower keeps author casing inside words ("skyNPC"
	// stays "SkyNPC").
	return cases.Title(language.English, cases.NoLower).String(s)
}
