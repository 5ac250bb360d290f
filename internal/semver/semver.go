// Package semver provides the small slice of semantic versioning the
// version command needs: validation, comparison, and major/minor/patch
// bumps. Versions are handled bare ("1.2.3"); the leading "v" that
// golang.org/x/mod/semver expects is added and stripped internally.
package semver

import (
	"fmt"
	"strconv"
	"strings"

	xsemver "golang.org/x/mod/semver"
)

// Bump selects which version component to increment.
type Bump int

const (
	BumpPatch Bump = iota
	BumpMinor
	BumpMajor
)

func (b Bump) String() string {
	switch b {
	case BumpMajor:
		return "major"
	case BumpMinor:
		return "minor"
	default:
		return "patch"
	}
}

// ParseBump parses a bump name ("major", "minor", "patch").
func ParseBump(s string) (Bump, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return BumpMajor, nil
	case "minor":
		return BumpMinor, nil
	case "patch":
		return BumpPatch, nil
	default:
		return 0, fmt.Errorf("unknown bump %q (want major, minor, or patch)", s)
	}
}

// IsValid reports whether s is a valid bare semantic version.
func IsValid(s string) bool {
	return xsemver.IsValid("v" + s)
}

// Compare orders two bare versions like xsemver.Compare.
func Compare(a, b string) int {
	return xsemver.Compare("v"+a, "v"+b)
}

// Next returns version with the given component bumped. Pre-release and
// build suffixes are dropped, matching the usual release flow where a bump
// finalizes the version.
func Next(version string, bump Bump) (string, error) {
	v := "v" + version
	if !xsemver.IsValid(v) {
		return "", fmt.Errorf("invalid version %q", version)
	}
	major, minor, patch, err := components(xsemver.Canonical(v))
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", version, err)
	}
	switch bump {
	case BumpMajor:
		major, minor, patch = major+1, 0, 0
	case BumpMinor:
		minor, patch = minor+1, 0
	case BumpPatch:
		patch++
	}
	return fmt.Sprintf("%d.%d.%d", major, minor, patch), nil
}

func components(canonical string) (major, minor, patch int, err error) {
	core := strings.TrimPrefix(canonical, "v")
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("want three components, got %d", len(parts))
	}
	nums := make([]int, 3)
	for i, p := range parts {
		if nums[i], err = strconv.Atoi(p); err != nil {
			return 0, 0, 0, err
		}
	}
	return nums[0], nums[1], nums[2], nil
}
