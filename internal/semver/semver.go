// Package semver holds the major.minor.patch triple that autobump advances.
// Parsing is deliberately lenient: release inputs come from CI configuration
// and tag names, and a malformed segment is read as 0 rather than rejected.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a semantic version without pre-release or build metadata.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`
}

// Parse reads a dotted version string. Missing, negative, or non-numeric
// segments become 0 and anything past the third segment is ignored.
//
//	Parse("1.2")    // 1.2.0
//	Parse("")       // 0.0.0
//	Parse("1.x.3")  // 1.0.3
func Parse(s string) Version {
	parts := strings.Split(strings.TrimSpace(s), ".")
	var segs [3]int
	for i := 0; i < len(segs) && i < len(parts); i++ {
		segs[i] = parseSegment(parts[i])
	}
	return Version{Major: segs[0], Minor: segs[1], Patch: segs[2]}
}

func parseSegment(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// String renders the version as major.minor.patch.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Equal reports whether both versions have identical components.
func (v Version) Equal(o Version) bool {
	return v == o
}

// Compare returns -1, 0 or 1 following semantic version precedence.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	default:
		return cmpInt(v.Patch, o.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// BumpMajor increments major and resets minor and patch.
func (v Version) BumpMajor() Version {
	return Version{Major: v.Major + 1}
}

// BumpMinor increments minor and resets patch.
func (v Version) BumpMinor() Version {
	return Version{Major: v.Major, Minor: v.Minor + 1}
}

// BumpPatch increments patch.
func (v Version) BumpPatch() Version {
	v.Patch++
	return v
}
