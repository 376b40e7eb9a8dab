package changelog

import (
	"strings"

	"github.com/ariel-frischer/autobump/internal/semver"
)

// Bump is the version change a rule applies.
type Bump int

const (
	BumpNone Bump = iota
	BumpPatch
	BumpMinor
	BumpMajor
)

// String returns the bump name shown by the rules command.
func (b Bump) String() string {
	switch b {
	case BumpPatch:
		return "patch"
	case BumpMinor:
		return "minor"
	case BumpMajor:
		return "major"
	default:
		return "none"
	}
}

// Apply returns v advanced by the bump.
func (b Bump) Apply(v semver.Version) semver.Version {
	switch b {
	case BumpMajor:
		return v.BumpMajor()
	case BumpMinor:
		return v.BumpMinor()
	case BumpPatch:
		return v.BumpPatch()
	default:
		return v
	}
}

// Rule classifies messages carrying a given prefix.
type Rule struct {
	// Name describes the rule for display, e.g. "feat!/fix!".
	Name     string
	Match    func(message string) bool
	Category Category
	Bump     Bump
	// Extract returns the note text for a matched message.
	Extract func(message string) string
}

// DefaultRules returns the classification table in priority order. The
// first matching rule wins, so breaking markers must precede fix: and feat:.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "feat!/fix!",
			Match:    hasAnyPrefix("feat!", "fix!"),
			Category: CategoryBreaking,
			Bump:     BumpMajor,
			Extract:  afterBang,
		},
		{
			Name:     "fix:",
			Match:    hasAnyPrefix("fix:"),
			Category: CategoryFixes,
			Bump:     BumpPatch,
			Extract:  trimPrefix("fix:"),
		},
		{
			Name:     "feat:",
			Match:    hasAnyPrefix("feat:"),
			Category: CategoryFeatures,
			Bump:     BumpMinor,
			Extract:  trimPrefix("feat:"),
		},
		{
			Name:     "chore:",
			Match:    hasAnyPrefix("chore:"),
			Category: CategoryOther,
			Bump:     BumpNone,
			Extract:  trimPrefix("chore:"),
		},
		{
			Name:     "*",
			Match:    func(string) bool { return true },
			Category: CategoryOther,
			Bump:     BumpNone,
			Extract:  func(m string) string { return m },
		},
	}
}

func hasAnyPrefix(prefixes ...string) func(string) bool {
	return func(m string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(m, p) {
				return true
			}
		}
		return false
	}
}

func trimPrefix(prefix string) func(string) string {
	return func(m string) string {
		return strings.TrimSpace(strings.TrimPrefix(m, prefix))
	}
}

// afterBang keeps the trimmed text after the first "!", so "feat!: x"
// yields ": x".
func afterBang(m string) string {
	_, rest, _ := strings.Cut(m, "!")
	return strings.TrimSpace(rest)
}

// Classifier folds commit messages into notes and a version.
type Classifier struct {
	Rules []Rule
}

// NewClassifier returns a Classifier using DefaultRules.
func NewClassifier() *Classifier {
	return &Classifier{Rules: DefaultRules()}
}

// Classify walks messages in order, appending each to exactly one category
// and applying its bump to the running version. Messages are expected in
// the "<lower-cased message> (<short hash>)" form.
func (c *Classifier) Classify(messages []string, start semver.Version) (Notes, semver.Version) {
	var notes Notes
	v := start
	for _, m := range messages {
		rule, ok := c.match(m)
		if !ok {
			notes.add(CategoryOther, m)
			continue
		}
		notes.add(rule.Category, rule.Extract(m))
		v = rule.Bump.Apply(v)
	}
	return notes, v
}

func (c *Classifier) match(m string) (Rule, bool) {
	for _, r := range c.Rules {
		if r.Match(m) {
			return r, true
		}
	}
	return Rule{}, false
}

// Classify is shorthand for NewClassifier().Classify.
func Classify(messages []string, start semver.Version) (Notes, semver.Version) {
	return NewClassifier().Classify(messages, start)
}
