// Package changelog turns conventional-commit messages into a version bump
// and categorized release notes.
//
// This package implements:
//   - An ordered rule table classifying each message (breaking, features,
//     fixes, other) and the version bump it implies
//   - A left fold over the commit window advancing a semantic version
//   - Markdown rendering of the collected notes for release bodies
//   - Colored terminal rendering for local previews
package changelog
