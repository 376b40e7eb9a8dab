// Package github lists commits and tags through the GitHub REST API.
// It is the hosting adapter used when autobump runs as a GitHub Action.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ariel-frischer/autobump/internal/history"
	"github.com/ariel-frischer/autobump/internal/source"
)

// DefaultBaseURL is the public GitHub API root.
const DefaultBaseURL = "https://api.github.com"

// apiVersion pins the REST API version sent with every request.
const apiVersion = "2022-11-28"

// debugLogger logs request URLs when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for API calls.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Client talks to a single repository. The zero HTTPClient uses
// http.DefaultClient, which has no timeout: the CI job timeout bounds a run.
type Client struct {
	BaseURL    string
	Owner      string
	Repo       string
	Token      string
	HTTPClient *http.Client
}

var (
	_ source.CommitLister = (*Client)(nil)
	_ source.TagLister    = (*Client)(nil)
)

// NewClient creates a client for an "owner/name" repository slug.
func NewClient(baseURL, repository, token string) (*Client, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Owner:   owner,
		Repo:    repo,
		Token:   token,
	}, nil
}

// SplitRepository splits an "owner/name" slug as found in GITHUB_REPOSITORY.
func SplitRepository(repository string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(repository), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", repository)
	}
	return owner, repo, nil
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GET %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, e.Message)
}

// IsAuthError reports whether err is a 401 or 403 response.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
	} `json:"commit"`
}

type tagResponse struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// ListCommits returns one page of the default branch history, newest-first.
func (c *Client) ListCommits(ctx context.Context, page, perPage int) ([]history.Commit, error) {
	var resp []commitResponse
	if err := c.get(ctx, "commits", page, perPage, &resp); err != nil {
		return nil, err
	}

	commits := make([]history.Commit, 0, len(resp))
	for _, r := range resp {
		commits = append(commits, history.Commit{ID: r.SHA, Message: r.Commit.Message})
	}
	return commits, nil
}

// ListTags returns one page of repository tags in API order.
func (c *Client) ListTags(ctx context.Context, page, perPage int) ([]source.Tag, error) {
	var resp []tagResponse
	if err := c.get(ctx, "tags", page, perPage, &resp); err != nil {
		return nil, err
	}

	tags := make([]source.Tag, 0, len(resp))
	for _, r := range resp {
		tags = append(tags, source.Tag{Name: r.Name, CommitHash: r.Commit.SHA})
	}
	return tags, nil
}

// get fetches a paginated repository collection into out.
func (c *Client) get(ctx context.Context, collection string, page, perPage int, out any) error {
	u := fmt.Sprintf("%s/repos/%s/%s/%s?%s", c.BaseURL,
		url.PathEscape(c.Owner), url.PathEscape(c.Repo), collection,
		url.Values{
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(perPage)},
		}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", "autobump")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	logDebug("[github] GET %s", u)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body), URL: u}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", collection, err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// errorMessage extracts the "message" field of a GitHub error body.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Message
}
