package internal

import "regexp"

const (
	// A name must start with a letter, digit or underscore and may contain
	// any character after that except control characters and slash.
	namePattern = `^[\pL\pN_][^\pC/]*$`
	// It may not end with whitespace or collide with a CDL type keyword.
	antiNamePattern = `(\pZ|^(u?byte|char|string|u?short|u?int|u?int64|float|double|enum|opaque|compound))$`
)

var (
	nameRe     = regexp.MustCompile(namePattern)
	antiNameRe = regexp.MustCompile(antiNamePattern)
)

// ValidName reports whether name is acceptable for a group, dimension,
// variable or attribute.
func ValidName(name string) bool {
	return nameRe.MatchString(name) && !antiNameRe.MatchString(name)
}
