package reconcile

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// featuring matches a trailing "(feat. X)..." or "feat. X" clause in a case-folded field.
var featuring = regexp.MustCompile(`\(feat\. .*\).*|\bfeat\. .*`)

// Normalize canonicalizes a free-text metadata field for comparison.
//
// The field is trimmed and case folded, and everything from a featuring clause onward is
// dropped. Normalize is total and idempotent; the empty string normalizes to itself.
func Normalize(field string) string {
	s := cases.Fold().String(strings.TrimSpace(field))
	if loc := featuring.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(s)
}
