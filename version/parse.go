package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses a version string in SemVer 2.0 or legacy four-part form.
//
// Accepted forms: "1", "1.2", "1.2.3", "1.2.3.4", each optionally followed
// by "-prerelease.labels" and "+build.metadata".
func Parse(s string) (*Version, error) {
	original := s
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("version cannot be empty")
	}

	// Split off build metadata first; it is not part of comparison and may
	// itself contain '-' or '.' without special meaning.
	metadata := ""
	if idx := strings.IndexByte(s, '+'); idx >= 0 {
		metadata = s[idx+1:]
		s = s[:idx]
	}

	prerelease := ""
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		prerelease = s[idx+1:]
		s = s[:idx]
	}

	parts := strings.Split(s, ".")
	if len(parts) < 1 || len(parts) > 4 {
		return nil, fmt.Errorf("invalid version %q: expected 1-4 numeric components", original)
	}

	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version %q: component %q is not a non-negative integer", original, p)
		}
		nums[i] = n
	}

	if prerelease != "" {
		for _, label := range strings.Split(prerelease, ".") {
			if label == "" {
				return nil, fmt.Errorf("invalid version %q: empty prerelease label", original)
			}
		}
	}

	return &Version{
		Major:      nums[0],
		Minor:      nums[1],
		Patch:      nums[2],
		Revision:   nums[3],
		Prerelease: prerelease,
		Metadata:   metadata,
		original:   original,
	}, nil
}

// MustParse parses s and panics if it is not a valid version.
// Use only for version literals known to be valid (tests, constants).
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0, or 1 depending on whether v is less than, equal
// to, or greater than o.
func (v *Version) Compare(o *Version) int {
	if v == nil && o == nil {
		return 0
	}
	if v == nil {
		return -1
	}
	if o == nil {
		return 1
	}

	if c := compareInt(v.Major, o.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, o.Patch); c != 0 {
		return c
	}
	if c := compareInt(v.Revision, o.Revision); c != 0 {
		return c
	}
	return comparePrerelease(v.Prerelease, o.Prerelease)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// comparePrerelease implements SemVer 2.0 precedence: an absent prerelease
// outranks any present one; present prereleases compare identifier-by-identifier,
// case-insensitively, with numeric identifiers compared numerically.
func comparePrerelease(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}

	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	for i := 0; i < len(aParts) && i < len(bParts); i++ {
		if c := compareIdentifier(aParts[i], bParts[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(aParts), len(bParts))
}

func compareIdentifier(a, b string) int {
	aNum, aErr := strconv.Atoi(a)
	bNum, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return compareInt(aNum, bNum)
	}
	if aErr == nil {
		return -1 // numeric identifiers sort before alphanumeric
	}
	if bErr == nil {
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Equal reports whether v and o compare equal.
func (v *Version) Equal(o *Version) bool { return v.Compare(o) == 0 }

// GreaterThan reports whether v compares greater than o.
func (v *Version) GreaterThan(o *Version) bool { return v.Compare(o) > 0 }

// GreaterThanOrEqual reports whether v compares greater than or equal to o.
func (v *Version) GreaterThanOrEqual(o *Version) bool { return v.Compare(o) >= 0 }

// LessThan reports whether v compares less than o.
func (v *Version) LessThan(o *Version) bool { return v.Compare(o) < 0 }

// IsPrerelease reports whether v has a non-empty prerelease label.
func (v *Version) IsPrerelease() bool { return v != nil && v.Prerelease != "" }
