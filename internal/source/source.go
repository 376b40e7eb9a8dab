// Package source pages commit and tag listings out of a repository host
// and hands them to the rest of autobump in a declared order.
package source

import (
	"context"
	"fmt"

	"github.com/ariel-frischer/autobump/internal/history"
)

// DefaultPageSize is the page size used for both commit and tag listings.
const DefaultPageSize = 100

// Tag is a named reference to a commit.
type Tag struct {
	Name       string `json:"name" yaml:"name"`
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
}

// CommitLister lists commits page by page, newest-first. Pages are 1-based
// and a page shorter than perPage is the last one.
type CommitLister interface {
	ListCommits(ctx context.Context, page, perPage int) ([]history.Commit, error)
}

// TagLister lists tags page by page in host order. Pages are 1-based and a
// page shorter than perPage is the last one.
type TagLister interface {
	ListTags(ctx context.Context, page, perPage int) ([]Tag, error)
}

// Host is a repository host able to list both commits and tags.
type Host interface {
	CommitLister
	TagLister
}

// Logger receives informational progress lines.
type Logger func(format string, args ...any)

func (l Logger) printf(format string, args ...any) {
	if l != nil {
		l(format, args...)
	}
}

// Fetcher collects commit history from a CommitLister.
type Fetcher struct {
	Lister   CommitLister
	PageSize int
	Logger   Logger
}

// NewFetcher creates a Fetcher using DefaultPageSize when pageSize is not positive.
func NewFetcher(lister CommitLister, pageSize int, logger Logger) *Fetcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Fetcher{Lister: lister, PageSize: pageSize, Logger: logger}
}

// Fetch pages through the history until a short page is returned or the
// page containing sinceHash has been read, whichever comes first. The
// result is always an oldest-first log holding every fetched commit,
// including sinceHash itself and anything older on its page.
//
// A listing error aborts the fetch; no partial history is returned.
func (f *Fetcher) Fetch(ctx context.Context, sinceHash string) (history.Log, error) {
	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var newestFirst []history.Commit
	for page := 1; ; page++ {
		commits, err := f.Lister.ListCommits(ctx, page, pageSize)
		if err != nil {
			return history.Log{}, fmt.Errorf("listing commits (page %d): %w", page, err)
		}

		found := false
		for _, c := range commits {
			f.Logger.printf("Found commit: %s\nmessage: %s", c.ID, c.Message)
			if sinceHash != "" && c.ID == sinceHash {
				found = true
			}
		}
		newestFirst = append(newestFirst, commits...)

		if found || len(commits) < pageSize {
			break
		}
	}

	log := history.Log{Commits: newestFirst, Order: history.NewestFirst}
	return history.Log{Commits: log.OldestFirst(), Order: history.OldestFirst}, nil
}
