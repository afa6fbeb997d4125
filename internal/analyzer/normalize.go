package analyzer

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes any markup fragments that survived text gathering;
// pasted comment text sometimes carries literal tags.
var stripPolicy = bluemonday.StrictPolicy()

var spaceRunRE = regexp.MustCompile(`[ \t]+`)

// normalizeText collapses a gathered comment body to clean plain text:
// residual markup stripped, entities decoded, directional and control
// characters removed, whitespace runs collapsed.
func normalizeText(s string) string {
	s = stripPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	s = strings.Map(dropControl, s)
	s = spaceRunRE.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// dropControl removes control characters and Unicode directional marks,
// which show up in copy-pasted comment text and break report greps.
func dropControl(r rune) rune {
	switch {
	case r == '\n':
		return r
	case r == '\t':
		return ' '
	case unicode.IsControl(r):
		return -1
	case r >= 0x200b && r <= 0x200f: // zero-width and LRM/RLM marks
		return -1
	case r >= 0x202a && r <= 0x202e: // directional embedding/override
		return -1
	case r >= 0x2066 && r <= 0x2069: // directional isolates
		return -1
	}
	return r
}
