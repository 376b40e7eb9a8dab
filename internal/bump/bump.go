// Package bump runs one release computation: resolve the previous release,
// fetch the commits since, classify them and render release notes.
package bump

import (
	"context"
	"fmt"

	"github.com/ariel-frischer/autobump/internal/changelog"
	"github.com/ariel-frischer/autobump/internal/history"
	"github.com/ariel-frischer/autobump/internal/reference"
	"github.com/ariel-frischer/autobump/internal/semver"
	"github.com/ariel-frischer/autobump/internal/source"
)

// Outcome says whether a computation produced a new version.
type Outcome string

const (
	// Release means the computed version differs from the previous one.
	Release Outcome = "release"
	// NoRelease means no commit in the window warranted a version bump.
	NoRelease Outcome = "no-release"
)

// Request carries the optional explicit reference point. Both fields must
// be set for it to be used; otherwise tags are scanned.
type Request struct {
	LastHash    string
	LastVersion string
}

// Result is the outcome of a single run.
type Result struct {
	Outcome      Outcome         `json:"outcome" yaml:"outcome"`
	Previous     semver.Version  `json:"previous" yaml:"previous"`
	Next         semver.Version  `json:"next" yaml:"next"`
	Notes        changelog.Notes `json:"notes" yaml:"notes"`
	ReleaseNotes string          `json:"release_notes" yaml:"release_notes"`
	Reference    reference.Point `json:"reference" yaml:"reference"`
	Commits      int             `json:"commits" yaml:"commits"`
}

// Released reports whether the run produced a new version.
func (r *Result) Released() bool {
	return r.Outcome == Release
}

// Runner wires the pipeline stages together. Stages run strictly in
// sequence; the host is never called concurrently.
type Runner struct {
	Resolver    *reference.Resolver
	Fetcher     *source.Fetcher
	Classifier  *changelog.Classifier
	MessageMode history.MessageMode
	// Logger receives progress lines. May be nil.
	Logger func(format string, args ...any)
}

// NewRunner builds a Runner over a single host using the given page sizes
// and tag order. Zero values select defaults.
func NewRunner(host source.Host, pageSize, tagPageSize int, order reference.TagOrder, logger func(format string, args ...any)) *Runner {
	return &Runner{
		Resolver: &reference.Resolver{
			Tags:     host,
			PageSize: tagPageSize,
			Order:    order,
			Warn:     logger,
		},
		Fetcher:     source.NewFetcher(host, pageSize, logger),
		Classifier:  changelog.NewClassifier(),
		MessageMode: history.MessageFull,
		Logger:      logger,
	}
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger(format, args...)
	}
}

// Run computes the next version and release notes. Any host failure aborts
// the run and is returned; no partial result is produced.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if r.Resolver == nil || r.Fetcher == nil {
		return nil, fmt.Errorf("runner is missing a resolver or fetcher")
	}

	point, err := r.Resolver.Resolve(ctx, req.LastHash, req.LastVersion)
	if err != nil {
		return nil, fmt.Errorf("resolving reference point: %w", err)
	}
	if point.Hash == "" {
		r.logf("No previous release found, using all commits from %s", point.Version)
	} else {
		r.logf("Last release: %s (%s)", point.Version, point.Hash)
	}

	log, err := r.Fetcher.Fetch(ctx, point.Hash)
	if err != nil {
		return nil, fmt.Errorf("fetching commits: %w", err)
	}

	window := history.Window(log, point.Hash)
	messages := history.Messages(window, r.MessageMode)

	classifier := r.Classifier
	if classifier == nil {
		classifier = changelog.NewClassifier()
	}
	notes, next := classifier.Classify(messages, point.Version)

	res := &Result{
		Outcome:      Release,
		Previous:     point.Version,
		Next:         next,
		Notes:        notes,
		ReleaseNotes: changelog.RenderMarkdownString(notes),
		Reference:    point,
		Commits:      len(window),
	}
	if next.Equal(point.Version) {
		res.Outcome = NoRelease
	}
	return res, nil
}
