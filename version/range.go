package version

import (
	"fmt"
	"math"
	"strings"
)

// FloatBehavior controls how the lower bound of a Range floats against the
// candidate set at resolve time. Behaviors increase in specificity in the
// order they are declared: Prerelease < Revision < Patch < Minor < Major.
type FloatBehavior int

const (
	// FloatNone means the range has a fixed lower bound.
	FloatNone FloatBehavior = iota
	// FloatPrerelease floats the prerelease label of a fixed release, e.g. "1.0.0-*".
	FloatPrerelease
	// FloatRevision floats the revision component, e.g. "1.0.0.*".
	FloatRevision
	// FloatPatch floats the patch component, e.g. "1.0.*".
	FloatPatch
	// FloatMinor floats the minor component, e.g. "1.*".
	FloatMinor
	// FloatMajor floats everything; equivalent to "*".
	FloatMajor
)

// String returns the canonical name of the float behavior.
func (f FloatBehavior) String() string {
	switch f {
	case FloatNone:
		return "none"
	case FloatPrerelease:
		return "prerelease"
	case FloatRevision:
		return "revision"
	case FloatPatch:
		return "patch"
	case FloatMinor:
		return "minor"
	case FloatMajor:
		return "major"
	default:
		return "unknown"
	}
}

// rank orders float behaviors by specificity; higher rank floats more.
func (f FloatBehavior) rank() int { return int(f) }

// Range represents a range of acceptable versions, with an optional
// floating directive on the lower bound.
//
// Syntax:
//
//	[1.0, 2.0]   - 1.0 <= x <= 2.0 (inclusive)
//	(1.0, 2.0)   - 1.0 <  x <  2.0 (exclusive)
//	[1.0, 2.0)   - 1.0 <= x <  2.0 (mixed)
//	[1.0, )      - x >= 1.0 (open upper)
//	(, 2.0]      - x <= 2.0 (open lower)
//	1.0          - x >= 1.0 (implicit minimum)
//	1.*          - floating minor
//	1.0.0-*      - floating prerelease
//	*            - any version (floating major)
type Range struct {
	Min          *Version
	Max          *Version
	MinInclusive bool
	MaxInclusive bool

	// Float is FloatNone for an ordinary range. Any other value means Min
	// (which may itself be nil for bare "*") is a floating lower bound.
	Float FloatBehavior

	// FloatPrefix is the declared prerelease prefix for FloatPrerelease
	// ranges, e.g. "beta" in "1.0.0-beta*". Empty means any prerelease
	// (or none) at that release matches.
	FloatPrefix string

	original string
}

// ParseRange parses a version range string, including floating forms.
func ParseRange(s string) (*Range, error) {
	original := s
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("version range cannot be empty")
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "(") {
		r, err := parseBracketRange(s)
		if err != nil {
			return nil, err
		}
		r.original = original
		return r, nil
	}

	if strings.Contains(s, "*") {
		r, err := parseFloatingRange(s)
		if err != nil {
			return nil, err
		}
		r.original = original
		return r, nil
	}

	v, err := Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid version range %q: %w", original, err)
	}
	return &Range{Min: v, MinInclusive: true, original: original}, nil
}

// MustParseRange parses s and panics on error. Use only for range literals
// known to be valid (tests, constants).
func MustParseRange(s string) *Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

func parseBracketRange(s string) (*Range, error) {
	if !strings.HasSuffix(s, "]") && !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("range must end with ] or )")
	}

	minInclusive := strings.HasPrefix(s, "[")
	maxInclusive := strings.HasSuffix(s, "]")

	body := s[1 : len(s)-1]
	parts := strings.Split(body, ",")

	var minPart, maxPart string
	switch len(parts) {
	case 1:
		minPart = strings.TrimSpace(parts[0])
		maxPart = minPart // exact-version pin, e.g. [1.0.0]
	case 2:
		minPart = strings.TrimSpace(parts[0])
		maxPart = strings.TrimSpace(parts[1])
	default:
		return nil, fmt.Errorf("range must have one or two parts separated by comma")
	}

	var minVersion, maxVersion *Version
	var err error
	if minPart != "" {
		minVersion, err = Parse(minPart)
		if err != nil {
			return nil, fmt.Errorf("invalid min version: %w", err)
		}
	}
	if maxPart != "" {
		maxVersion, err = Parse(maxPart)
		if err != nil {
			return nil, fmt.Errorf("invalid max version: %w", err)
		}
	}

	return &Range{
		Min:          minVersion,
		Max:          maxVersion,
		MinInclusive: minInclusive,
		MaxInclusive: maxInclusive,
	}, nil
}

// parseFloatingRange parses "*", "1.*", "1.0.*", "1.0.0.*", "1.0.0-*", "1.0.0-beta*".
func parseFloatingRange(s string) (*Range, error) {
	if s == "*" {
		return &Range{Float: FloatMajor}, nil
	}

	if idx := strings.IndexByte(s, '-'); idx >= 0 && strings.HasSuffix(s, "*") {
		versionPart := s[:idx]
		prefix := strings.TrimSuffix(s[idx+1:], "*")
		v, err := Parse(versionPart)
		if err != nil {
			return nil, fmt.Errorf("invalid floating range %q: %w", s, err)
		}
		return &Range{Min: v, MinInclusive: true, Float: FloatPrerelease, FloatPrefix: prefix}, nil
	}

	parts := strings.Split(s, ".")
	floatIndex := -1
	for i, p := range parts {
		if p == "*" {
			floatIndex = i
			break
		}
	}
	if floatIndex == -1 {
		return nil, fmt.Errorf("invalid floating range %q: no wildcard component", s)
	}

	var behavior FloatBehavior
	switch floatIndex {
	case 0:
		behavior = FloatMajor
	case 1:
		behavior = FloatMinor
	case 2:
		behavior = FloatPatch
	case 3:
		behavior = FloatRevision
	default:
		return nil, fmt.Errorf("invalid wildcard position in %q", s)
	}

	var minVersion *Version
	if floatIndex > 0 {
		versionParts := append([]string{}, parts[:floatIndex]...)
		for len(versionParts) < 2 {
			versionParts = append(versionParts, "0")
		}
		v, err := Parse(strings.Join(versionParts, "."))
		if err != nil {
			return nil, fmt.Errorf("invalid floating range %q: %w", s, err)
		}
		minVersion = v
	}

	return &Range{Min: minVersion, MinInclusive: true, Float: behavior}, nil
}

// Satisfies reports whether v falls within r, honoring bound inclusivity
// and any floating directive on the lower bound. Total: never panics on
// a well-formed Range and non-nil v, and returns false for a nil v.
func (r *Range) Satisfies(v *Version) bool {
	if r == nil || v == nil {
		return false
	}

	if r.Float != FloatNone {
		if !r.satisfiesFloat(v) {
			return false
		}
	} else if r.Min != nil {
		cmp := v.Compare(r.Min)
		if r.MinInclusive {
			if cmp < 0 {
				return false
			}
		} else if cmp <= 0 {
			return false
		}
	}

	if r.Max != nil {
		cmp := v.Compare(r.Max)
		if r.MaxInclusive {
			if cmp > 0 {
				return false
			}
		} else if cmp >= 0 {
			return false
		}
	}

	return true
}

func (r *Range) satisfiesFloat(v *Version) bool {
	if r.Min == nil {
		return true // bare "*"
	}
	switch r.Float {
	case FloatPrerelease:
		if v.Major != r.Min.Major || v.Minor != r.Min.Minor || v.Patch != r.Min.Patch {
			return false
		}
		if r.FloatPrefix == "" {
			return true
		}
		return strings.HasPrefix(strings.ToLower(v.Prerelease), strings.ToLower(r.FloatPrefix))
	case FloatRevision:
		return v.Major == r.Min.Major && v.Minor == r.Min.Minor && v.Patch == r.Min.Patch
	case FloatPatch:
		return v.Major == r.Min.Major && v.Minor == r.Min.Minor
	case FloatMinor:
		return v.Major == r.Min.Major
	case FloatMajor:
		return true
	default:
		return false
	}
}

// floor returns the canonical floor version substituted for a floating
// range's lower bound, plus the declared prerelease prefix (non-floating
// and FloatNone ranges return their plain Min with an empty prefix).
func (r *Range) floor() (*Version, string) {
	if r == nil || r.Float == FloatNone {
		return r.safeMin(), ""
	}
	const inf = math.MaxInt32
	switch r.Float {
	case FloatMajor:
		return &Version{Major: inf, Minor: inf, Patch: inf, Revision: inf}, ""
	case FloatMinor:
		base := r.safeMin()
		return &Version{Major: base.Major, Minor: inf, Patch: inf, Revision: inf}, ""
	case FloatPatch:
		base := r.safeMin()
		return &Version{Major: base.Major, Minor: base.Minor, Patch: inf, Revision: inf}, ""
	case FloatRevision:
		base := r.safeMin()
		return &Version{Major: base.Major, Minor: base.Minor, Patch: base.Patch, Revision: inf}, ""
	case FloatPrerelease:
		base := r.safeMin()
		return &Version{Major: base.Major, Minor: base.Minor, Patch: base.Patch, Revision: base.Revision}, r.FloatPrefix
	default:
		return r.safeMin(), ""
	}
}

func (r *Range) safeMin() *Version {
	if r.Min != nil {
		return r.Min
	}
	return &Version{}
}

// IsGreaterOrEqual defines range-vs-range ordering used by downgrade
// detection: does the range requested by the nearer ancestor (near) ask
// for at least as much as the range requested by the farther one (far)?
//
//   - A range with no lower bound always wins (it imposes no floor).
//   - Otherwise a range with a lower bound always beats one with none.
//   - If either side floats, both sides' lower bounds are first reduced to
//     a canonical floor for the floating component (substituting "infinity"
//     for the floated portion), then compared; ties are broken by the
//     floating prerelease prefix, with an empty prefix outranking any
//     declared one.
//   - Non-floating ranges compare their lower-bound versions directly.
func IsGreaterOrEqual(near, far *Range) bool {
	if near == nil || near.Min == nil && near.Float == FloatNone {
		return true
	}
	if far == nil || far.Min == nil && far.Float == FloatNone {
		return false
	}

	if near.Float != FloatNone || far.Float != FloatNone {
		nearFloor, nearPrefix := near.floor()
		farFloor, farPrefix := far.floor()

		cmp := nearFloor.Compare(farFloor)
		if cmp != 0 {
			return cmp > 0
		}
		if nearPrefix == "" {
			return true
		}
		if farPrefix == "" {
			return false
		}
		return strings.ToLower(nearPrefix) >= strings.ToLower(farPrefix)
	}

	return near.Min.Compare(far.Min) >= 0
}

// String returns the original parsed string if available, otherwise a
// canonical rendering.
func (r *Range) String() string {
	if r == nil {
		return ""
	}
	if r.original != "" {
		return r.original
	}
	if r.Float != FloatNone {
		switch r.Float {
		case FloatMajor:
			return "*"
		case FloatMinor:
			return fmt.Sprintf("%d.*", r.Min.Major)
		case FloatPatch:
			return fmt.Sprintf("%d.%d.*", r.Min.Major, r.Min.Minor)
		case FloatRevision:
			return fmt.Sprintf("%d.%d.%d.*", r.Min.Major, r.Min.Minor, r.Min.Patch)
		case FloatPrerelease:
			return fmt.Sprintf("%s-%s*", r.Min.format(), r.FloatPrefix)
		}
	}

	minBracket, maxBracket := "(", ")"
	if r.MinInclusive {
		minBracket = "["
	}
	if r.MaxInclusive {
		maxBracket = "]"
	}
	minStr, maxStr := "", ""
	if r.Min != nil {
		minStr = r.Min.String()
	}
	if r.Max != nil {
		maxStr = r.Max.String()
	}
	return fmt.Sprintf("%s%s, %s%s", minBracket, minStr, maxStr, maxBracket)
}

// FindBestMatch returns the highest version in candidates that satisfies r,
// or nil if none does.
func (r *Range) FindBestMatch(candidates []*Version) *Version {
	var best *Version
	for _, v := range candidates {
		if r.Satisfies(v) && (best == nil || v.GreaterThan(best)) {
			best = v
		}
	}
	return best
}
