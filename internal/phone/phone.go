// Package phone normalizes and validates the E.164-style numbers used
// for proxy delivery targets.
package phone

import (
	"regexp"
	"strings"
)

// Leading optional +, first digit nonzero, 10-15 digits total.
var e164 = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)

// Normalize strips spaces and dashes so "+65 8293 8737" and
// "92-3749-93872" both pass validation.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// Valid reports whether the already-normalized number matches the
// accepted pattern.
func Valid(s string) bool {
	return e164.MatchString(s)
}
