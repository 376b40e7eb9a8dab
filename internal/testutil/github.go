// Package testutil provides test utilities and helpers for autobump tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Commit is a commit served by FakeGitHub.
type Commit struct {
	SHA     string
	Message string
}

// Tag is a tag served by FakeGitHub.
type Tag struct {
	Name string
	SHA  string
}

// FakeGitHub serves the commits and tags endpoints of a single repository
// and records every request it receives. Commits and tags are served in
// slice order, so list them newest first as GitHub does.
type FakeGitHub struct {
	Server     *httptest.Server
	Repository string
	Token      string

	commits []Commit
	tags    []Tag
	status  int

	mu    sync.Mutex
	calls []CallRecord
}

// NewFakeGitHub starts a fake API for repository ("owner/repo") that is
// closed when the test ends.
func NewFakeGitHub(t *testing.T, repository string, commits []Commit, tags []Tag) *FakeGitHub {
	t.Helper()

	f := &FakeGitHub{
		Repository: repository,
		Token:      "test-token",
		commits:    commits,
		tags:       tags,
		status:     http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/"+repository+"/commits", f.handle(func(start, end int) any {
		body := make([]map[string]any, 0, end-start)
		for _, c := range f.commits[start:end] {
			body = append(body, map[string]any{"sha": c.SHA, "commit": map[string]any{"message": c.Message}})
		}
		return body
	}, func() int { return len(f.commits) }))
	mux.HandleFunc("/repos/"+repository+"/tags", f.handle(func(start, end int) any {
		body := make([]map[string]any, 0, end-start)
		for _, tag := range f.tags[start:end] {
			body = append(body, map[string]any{"name": tag.Name, "commit": map[string]any{"sha": tag.SHA}})
		}
		return body
	}, func() int { return len(f.tags) }))

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// FailWith makes every later request answer with status.
func (f *FakeGitHub) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// URL is the API root to configure clients with.
func (f *FakeGitHub) URL() string {
	return f.Server.URL
}

// Calls returns the requests received so far.
func (f *FakeGitHub) Calls() []CallRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CallRecord(nil), f.calls...)
}

// Endpoints returns the requests received so far as "<resource>?page=N"
// strings, e.g. "tags?page=1".
func (f *FakeGitHub) Endpoints() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		resource := c.Path[strings.LastIndex(c.Path, "/")+1:]
		out[i] = fmt.Sprintf("%s?page=%s", resource, c.Query.Get("page"))
	}
	return out
}

func (f *FakeGitHub) handle(page func(start, end int) any, total func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := f.status
		f.mu.Unlock()

		if status == http.StatusOK && r.Header.Get("Authorization") != "Bearer "+f.Token {
			status = http.StatusUnauthorized
		}
		f.record(r, status)

		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprintf(w, `{"message":%q}`, http.StatusText(status))
			return
		}

		p, _ := strconv.Atoi(r.URL.Query().Get("page"))
		per, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		if p < 1 {
			p = 1
		}
		if per < 1 {
			per = 30
		}
		n := total()
		start := min((p-1)*per, n)
		end := min(start+per, n)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page(start, end))
	}
}

func (f *FakeGitHub) record(r *http.Request, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, CallRecord{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.Query(),
		Status:    status,
		Timestamp: time.Now(),
	})
}
