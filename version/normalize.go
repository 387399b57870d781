package version

import "fmt"

// Normalize parses a version string and returns its normalized form.
//
// Normalization converts versions to their canonical string representation,
// dropping a zero Revision component and any parsing artifacts.
//
// Examples:
//   - "1.01.1" -> "1.1.1"
//   - "1"      -> "1.0.0"
//   - "1.2"    -> "1.2.0"
//   - "1.0.0.5" -> "1.0.0.5" (non-zero revision preserved)
func Normalize(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", fmt.Errorf("cannot normalize invalid version: %w", err)
	}
	return v.format(), nil
}

// MustNormalize normalizes s, panicking on error.
func MustNormalize(s string) string {
	n, err := Normalize(s)
	if err != nil {
		panic(err)
	}
	return n
}

// NormalizeOrOriginal normalizes s, falling back to s unchanged if it does
// not parse as a valid version.
func NormalizeOrOriginal(s string) string {
	n, err := Normalize(s)
	if err != nil {
		return s
	}
	return n
}
