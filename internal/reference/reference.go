// Package reference resolves the point a release computation starts from:
// the commit hash and version of the previous release.
package reference

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ariel-frischer/autobump/internal/semver"
	"github.com/ariel-frischer/autobump/internal/source"
)

// versionTagPattern matches tags such as v1.2.3, V 1.2.3 or release-1.2.3
// but not v1.2.3-rc1.
var versionTagPattern = regexp.MustCompile(`(?i)^v?[^\d]*\d+\.\d+\.\d+$`)

// Point is the commit and version a computation starts from. An empty Hash
// means the whole history is new.
type Point struct {
	Hash    string         `json:"hash" yaml:"hash"`
	Version semver.Version `json:"version" yaml:"version"`
	// Tag is the name of the tag the point was resolved from, if any.
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// TagOrder selects which matching tag wins.
type TagOrder string

const (
	// OrderHost takes the first matching tag on the first page that has
	// one, trusting the host's listing order.
	OrderHost TagOrder = "host"
	// OrderSemver scans every page and takes the highest parsed version.
	OrderSemver TagOrder = "semver"
)

// MatchesVersionTag reports whether a tag name denotes a release version.
func MatchesVersionTag(name string) bool {
	return versionTagPattern.MatchString(name)
}

// TagVersion strips every character other than digits and dots from a tag
// name, leaving the version string.
func TagVersion(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, name)
}

// Resolver finds the reference point, scanning tags when no explicit
// reference is configured.
type Resolver struct {
	Tags     source.TagLister
	PageSize int
	Order    TagOrder
	// Warn receives notices about ignored input. May be nil.
	Warn func(format string, args ...any)
}

// Resolve returns the explicit hash and version unchanged when both are
// supplied, without calling the host. Otherwise it scans tags; when no
// version tag exists the zero point (0.0.0, empty hash) is returned.
func (r *Resolver) Resolve(ctx context.Context, explicitHash, explicitVersion string) (Point, error) {
	if explicitHash != "" && explicitVersion != "" {
		return Point{Hash: explicitHash, Version: semver.Parse(explicitVersion)}, nil
	}
	if (explicitHash != "") != (explicitVersion != "") && r.Warn != nil {
		r.Warn("last-hash and last-version must be given together; resolving from tags instead")
	}

	if r.Order == OrderSemver {
		return r.highestTag(ctx)
	}
	return r.firstTag(ctx)
}

func (r *Resolver) pageSize() int {
	if r.PageSize <= 0 {
		return source.DefaultPageSize
	}
	return r.PageSize
}

// firstTag implements host ordering: the first matching tag on the first
// page containing any match.
func (r *Resolver) firstTag(ctx context.Context) (Point, error) {
	for page := 1; ; page++ {
		tags, err := r.Tags.ListTags(ctx, page, r.pageSize())
		if err != nil {
			return Point{}, fmt.Errorf("listing tags (page %d): %w", page, err)
		}
		if len(tags) == 0 {
			return Point{}, nil
		}
		for _, tag := range tags {
			if MatchesVersionTag(tag.Name) {
				return pointFromTag(tag), nil
			}
		}
	}
}

// highestTag scans every page and keeps the highest version. Ties keep the
// tag seen first.
func (r *Resolver) highestTag(ctx context.Context) (Point, error) {
	var (
		best  Point
		found bool
	)
	for page := 1; ; page++ {
		tags, err := r.Tags.ListTags(ctx, page, r.pageSize())
		if err != nil {
			return Point{}, fmt.Errorf("listing tags (page %d): %w", page, err)
		}
		if len(tags) == 0 {
			break
		}
		for _, tag := range tags {
			if !MatchesVersionTag(tag.Name) {
				continue
			}
			p := pointFromTag(tag)
			if !found || p.Version.Compare(best.Version) > 0 {
				best, found = p, true
			}
		}
	}
	return best, nil
}

func pointFromTag(tag source.Tag) Point {
	return Point{
		Hash:    tag.CommitHash,
		Version: semver.Parse(TagVersion(tag.Name)),
		Tag:     tag.Name,
	}
}
