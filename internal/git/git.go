// Package git reads commit history and tags from a local repository using
// go-git, so autobump can run outside of GitHub Actions without the git CLI.
// The Repository type serves the same paged listing contract as the GitHub
// adapter.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/ariel-frischer/autobump/internal/history"
	"github.com/ariel-frischer/autobump/internal/source"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// DetectDotGit lets path point anywhere inside the working tree.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// Repository lists the history reachable from HEAD and the tags of a local
// repository. It is not safe for concurrent use.
type Repository struct {
	repo *git.Repository

	// commits buffers HEAD history, newest-first, as far as it has been read.
	commits []history.Commit
	iter    object.CommitIter
	done    bool

	tags []source.Tag

	// FetchTimeout bounds each remote fetch in FetchTags.
	FetchTimeout time.Duration
	// Warnf reports remotes that could not be fetched. Nil routes the
	// warning to the debug logger.
	Warnf func(format string, args ...any)
}

var _ source.Host = (*Repository)(nil)

// Open opens the repository containing path. An empty path means the
// current working directory.
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	return &Repository{repo: repo, FetchTimeout: DefaultFetchTimeout}, nil
}

// ListCommits returns one page of HEAD history in committer-time order,
// newest-first. Commits are read lazily, only as far as requested pages need.
func (r *Repository) ListCommits(ctx context.Context, page, perPage int) ([]history.Commit, error) {
	if page < 1 || perPage < 1 {
		return nil, fmt.Errorf("invalid page %d (per page %d)", page, perPage)
	}
	start := (page - 1) * perPage
	end := start + perPage

	if err := r.readCommits(ctx, end); err != nil {
		return nil, err
	}

	if start >= len(r.commits) {
		return nil, nil
	}
	end = min(end, len(r.commits))
	logDebug("[git] ListCommits: page %d -> %d commits", page, end-start)
	return r.commits[start:end], nil
}

// readCommits extends the buffer until it holds n commits or history ends.
func (r *Repository) readCommits(ctx context.Context, n int) error {
	if r.done || len(r.commits) >= n {
		return nil
	}

	if r.iter == nil {
		head, err := r.repo.Head()
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			// Unborn branch: no commits yet.
			r.done = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("getting HEAD reference: %w", err)
		}
		iter, err := r.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
		if err != nil {
			return fmt.Errorf("reading commits: %w", err)
		}
		r.iter = iter
	}

	for len(r.commits) < n {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := r.iter.Next()
		if err == io.EOF {
			r.done = true
			r.iter.Close()
			return nil
		}
		if err != nil {
			return fmt.Errorf("iterating commits: %w", err)
		}
		r.commits = append(r.commits, history.Commit{ID: c.Hash.String(), Message: c.Message})
	}
	return nil
}

// ListTags returns one page of tags. Annotated tags are peeled to the
// commit they point at. Tags are ordered by the time of their commit,
// newest first, with ties broken by name, so the local host order matches
// "most recent tag first".
func (r *Repository) ListTags(ctx context.Context, page, perPage int) ([]source.Tag, error) {
	if page < 1 || perPage < 1 {
		return nil, fmt.Errorf("invalid page %d (per page %d)", page, perPage)
	}
	if r.tags == nil {
		tags, err := r.loadTags(ctx)
		if err != nil {
			return nil, err
		}
		r.tags = tags
	}

	start := (page - 1) * perPage
	if start >= len(r.tags) {
		return nil, nil
	}
	end := min(start+perPage, len(r.tags))
	return r.tags[start:end], nil
}

func (r *Repository) loadTags(ctx context.Context) ([]source.Tag, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer refs.Close()

	type datedTag struct {
		tag  source.Tag
		when time.Time
	}
	var dated []datedTag

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commit, err := r.peel(ref.Hash())
		if err != nil {
			logDebug("[git] skipping tag %s: %v", ref.Name().Short(), err)
			return nil
		}
		dated = append(dated, datedTag{
			tag:  source.Tag{Name: ref.Name().Short(), CommitHash: commit.Hash.String()},
			when: commit.Committer.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	sort.SliceStable(dated, func(i, j int) bool {
		if !dated[i].when.Equal(dated[j].when) {
			return dated[i].when.After(dated[j].when)
		}
		return dated[i].tag.Name > dated[j].tag.Name
	})

	tags := make([]source.Tag, len(dated))
	for i, d := range dated {
		tags[i] = d.tag
	}
	logDebug("[git] loaded %d tags", len(tags))
	return tags, nil
}

// peel resolves a tag reference hash to its commit, following annotated tags.
func (r *Repository) peel(hash plumbing.Hash) (*object.Commit, error) {
	if tagObj, err := r.repo.TagObject(hash); err == nil {
		return tagObj.Commit()
	}
	return r.repo.CommitObject(hash)
}

// IsShallow reports whether the repository was cloned with a limited depth.
// Shallow clones miss older commits and usually most tags.
func (r *Repository) IsShallow() (bool, error) {
	hashes, err := r.repo.Storer.Shallow()
	if err != nil {
		return false, fmt.Errorf("reading shallow file: %w", err)
	}
	return len(hashes) > 0, nil
}

// DefaultFetchTimeout is the default per-remote timeout for FetchTags.
const DefaultFetchTimeout = 60 * time.Second

// FetchTags fetches tags from every configured remote so tag resolution sees
// releases made elsewhere. Failures for individual remotes are logged and
// skipped; the return value reports whether all fetches succeeded.
func (r *Repository) FetchTags(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	remotes, err := r.repo.Remotes()
	if err != nil {
		logDebug("[git] FetchTags: no remotes: %v", err)
		return true, nil
	}
	if len(remotes) == 0 {
		logDebug("[git] FetchTags: no remotes configured")
		return true, nil
	}

	allSucceeded := true
	for _, remote := range remotes {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if err := r.fetchRemoteTags(ctx, remote); err != nil {
			r.warnf("failed to fetch tags from remote '%s': %v", remote.Config().Name, err)
			allSucceeded = false
		}
	}

	// New tags invalidate the cached listing.
	r.tags = nil
	logDebug("[git] FetchTags: completed, all succeeded: %v", allSucceeded)
	return allSucceeded, nil
}

func (r *Repository) warnf(format string, args ...any) {
	if r.Warnf != nil {
		r.Warnf(format, args...)
		return
	}
	logDebug("[git] "+format, args...)
}

// fetchRemoteTags fetches tags from a single remote within FetchTimeout.
// SSH remotes are skipped when no SSH agent is available.
func (r *Repository) fetchRemoteTags(ctx context.Context, remote *git.Remote) error {
	remoteConfig := remote.Config()
	if len(remoteConfig.URLs) == 0 {
		return nil
	}

	url := remoteConfig.URLs[0]
	if isSSHURL(url) && !isSSHAgentAvailable() {
		logDebug("[git] skipping fetch from remote '%s': SSH URL without SSH agent available", remoteConfig.Name)
		return nil
	}

	if r.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.FetchTimeout)
		defer cancel()
	}

	logDebug("[git] fetching tags from remote '%s' (%s)", remoteConfig.Name, url)
	err := r.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteConfig.Name,
		Auth:       getAuthForURL(url),
		Tags:       git.AllTags,
		RefSpecs:   []config.RefSpec{config.RefSpec("+refs/tags/*:refs/tags/*")},
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

// getAuthForURL returns the appropriate authentication method for a remote URL.
// SSH URLs use SSH agent auth, HTTPS URLs use GIT_USERNAME/GIT_PASSWORD or
// GITHUB_TOKEN from the environment.
func getAuthForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			// GitHub accepts any non-empty username alongside a token password.
			username, password = "x-access-token", token
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}

	return nil
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// isSSHAgentAvailable checks if an SSH agent is available.
func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}
