// Package health runs the readiness checks behind 'autobump doctor'. Checks
// never fail fast, so a single invocation lists every problem at once.
package health

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/autobump/internal/config"
	"github.com/ariel-frischer/autobump/internal/git"
	"github.com/ariel-frischer/autobump/internal/github"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Warning marks a passed check that still deserves attention.
	Warning bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// RunHealthChecks runs every check that applies to cfg.
func RunHealthChecks(cfg *config.Configuration) *HealthReport {
	report := &HealthReport{Passed: true}

	report.add(CheckProjectConfig(config.ProjectConfigPath()))
	if cfg.Source == config.SourceLocal {
		report.add(CheckWorkingCopy(cfg.RepoPath))
	} else {
		report.add(CheckToken(cfg.GithubToken))
		report.add(CheckRepository(cfg.Repository))
	}
	if cfg.OutputFile != "" {
		report.add(CheckOutputFile(cfg.OutputFile))
	}
	return report
}

// CheckProjectConfig validates the YAML syntax of the project config file.
// A missing file passes; defaults apply.
func CheckProjectConfig(path string) CheckResult {
	result := CheckResult{Name: "Project config"}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		result.Passed = true
		result.Message = fmt.Sprintf("%s not found, using defaults", path)
		return result
	}
	if err := config.ValidateYAMLSyntax(path); err != nil {
		result.Message = err.Error()
		return result
	}
	result.Passed = true
	result.Message = fmt.Sprintf("%s is valid", path)
	return result
}

// CheckToken checks that a GitHub token is configured.
func CheckToken(token string) CheckResult {
	if token == "" {
		return CheckResult{
			Name:    "GitHub token",
			Message: "not set (github-token input, GITHUB_TOKEN or AUTOBUMP_GITHUB_TOKEN)",
		}
	}
	return CheckResult{Name: "GitHub token", Passed: true, Message: "configured"}
}

// CheckRepository checks that the repository is set in owner/repo form.
func CheckRepository(repository string) CheckResult {
	if repository == "" {
		return CheckResult{Name: "Repository", Message: "not set (GITHUB_REPOSITORY or AUTOBUMP_REPOSITORY)"}
	}
	if _, _, err := github.SplitRepository(repository); err != nil {
		return CheckResult{Name: "Repository", Message: err.Error()}
	}
	return CheckResult{Name: "Repository", Passed: true, Message: repository}
}

// CheckWorkingCopy checks that path is inside a git repository and warns
// about shallow clones, which usually lack the release tags.
func CheckWorkingCopy(path string) CheckResult {
	if path == "" {
		path = "."
	}
	result := CheckResult{Name: "Working copy"}

	repo, err := git.Open(path)
	if err != nil {
		result.Message = fmt.Sprintf("%s is not a git repository", path)
		return result
	}
	result.Passed = true

	shallow, err := repo.IsShallow()
	switch {
	case err != nil:
		result.Warning = true
		result.Message = fmt.Sprintf("could not check clone depth: %v", err)
	case shallow:
		result.Warning = true
		result.Message = "shallow clone; tags may be missing (check out with fetch-depth: 0)"
	default:
		result.Message = "git repository found"
	}
	return result
}

// CheckOutputFile checks that the step output file's directory exists so
// outputs can be appended to it.
func CheckOutputFile(path string) CheckResult {
	result := CheckResult{Name: "Output file"}
	info, err := os.Stat(filepath.Dir(path))
	if err != nil || !info.IsDir() {
		result.Message = fmt.Sprintf("directory of %s does not exist", path)
		return result
	}
	result.Passed = true
	result.Message = path
	return result
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var output string

	for _, check := range report.Checks {
		symbol := "✓"
		switch {
		case !check.Passed:
			symbol = "✗"
		case check.Warning:
			symbol = "!"
		}
		output += fmt.Sprintf("%s %s: %s\n", symbol, check.Name, check.Message)
	}

	return output
}
