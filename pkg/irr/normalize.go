package irr

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// spaceClass matches what unicode.IsSpace accepts; RE2's \s stops at ASCII.
const spaceClass = `\s\v\p{Z}\x{85}`

var familyMarkerRegex = regexp.MustCompile(`(?i)^(?:ipv4|ipv6):`)

// isSeparator reports whether r splits two AS-SETs. Any Unicode white space
// counts, so pasted non-breaking spaces separate as well.
func isSeparator(r rune) bool {
	switch r {
	case '/', ',', '&':
		return true
	}
	return unicode.IsSpace(r)
}

// Normalizer splits compound AS-SET expressions into tokens that can be
// resolved one by one.
type Normalizer struct {
	sourceRegex *regexp.Regexp
}

// NewNormalizer builds a Normalizer stripping the given registry sources.
func NewNormalizer(sources []string) *Normalizer {
	quoted := make([]string, 0, len(sources))
	for _, source := range sources {
		if source = strings.TrimSpace(source); source != "" {
			quoted = append(quoted, regexp.QuoteMeta(source))
		}
	}

	n := &Normalizer{}
	if len(quoted) > 0 {
		n.sourceRegex = regexp.MustCompile(`(?i)^(?:` + strings.Join(quoted, "|") + `):[:` + spaceClass + `]?`)
	}
	return n
}

// Normalize returns the AS-SET tokens contained in rawAsSet, in input order.
// When nothing usable is left the origin AS itself is returned as the only
// token.
func (n *Normalizer) Normalize(originASN uint32, rawAsSet string) []string {
	fallback := []string{fmt.Sprintf("AS%d", originASN)}

	if strings.TrimSpace(rawAsSet) == "" {
		return fallback
	}

	var asSets []string
	for _, value := range strings.FieldsFunc(rawAsSet, isSeparator) {
		if value = n.clean(value); value == "" {
			continue
		}
		asSets = append(asSets, value)
	}

	if len(asSets) == 0 {
		return fallback
	}
	return asSets
}

// clean strips registry and address family markers until none is left.
func (n *Normalizer) clean(value string) string {
	for {
		stripped := false
		for _, regex := range n.cleanupRegexes() {
			if loc := regex.FindStringIndex(value); loc != nil {
				value = strings.TrimSpace(value[loc[1]:])
				stripped = true
			}
		}
		if !stripped || value == "" {
			return value
		}
	}
}

func (n *Normalizer) cleanupRegexes() []*regexp.Regexp {
	if n.sourceRegex == nil {
		return []*regexp.Regexp{familyMarkerRegex}
	}
	return []*regexp.Regexp{n.sourceRegex, familyMarkerRegex}
}
