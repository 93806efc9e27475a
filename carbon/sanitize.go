package carbon

import "strings"

// Sanitize makes a string safe to use as a Carbon metric-path component by
// substituting characters Graphite treats as path separators. The
// substitutions run in this fixed order, and in this order only: a
// hyphen becomes an underscore, THEN a dot becomes a double underscore,
// THEN a slash becomes an underscore. No substitution emits a character
// that a later one replaces, so "a-b.c" becomes "a_b__c" and adjacent
// specials such as "a-.b" become a run of underscores ("a___b").
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, ".", "__")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
