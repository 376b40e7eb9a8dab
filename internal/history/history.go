// Package history models the commit sequence autobump classifies and
// extracts the window of commits newer than a reference point.
//
// Hosts disagree on ordering (the GitHub commits endpoint is newest-first,
// a replayed local log may be either), so every Log carries the order its
// producer guarantees and consumers normalize through OldestFirst.
package history

import (
	"fmt"
	"strings"
)

// ShortHashLen is the number of leading hash characters shown in notes.
const ShortHashLen = 7

// Commit is a single commit as fetched from the host. Commits are
// immutable once fetched.
type Commit struct {
	ID      string `json:"id" yaml:"id"`
	Message string `json:"message" yaml:"message"`
}

// ShortHash returns the first ShortHashLen characters of the commit ID.
// IDs shorter than that are returned whole.
func (c Commit) ShortHash() string {
	if len(c.ID) < ShortHashLen {
		return c.ID
	}
	return c.ID[:ShortHashLen]
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimRight(subject, "\r")
}

// Order is the chronological direction of a commit sequence.
type Order int

const (
	// OldestFirst lists the root-most commit first.
	OldestFirst Order = iota
	// NewestFirst lists the most recent commit first.
	NewestFirst
)

// String returns the order name used in logs.
func (o Order) String() string {
	switch o {
	case OldestFirst:
		return "oldest-first"
	case NewestFirst:
		return "newest-first"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// Log is an ordered commit sequence together with the order its producer
// guarantees.
type Log struct {
	Commits []Commit
	Order   Order
}

// OldestFirst returns the commits oldest-first. The receiver is never
// modified; a reversed copy is returned for NewestFirst logs.
func (l Log) OldestFirst() []Commit {
	if l.Order == OldestFirst {
		return l.Commits
	}
	out := make([]Commit, len(l.Commits))
	for i, c := range l.Commits {
		out[len(l.Commits)-1-i] = c
	}
	return out
}

// Window returns the commits strictly newer than sinceHash, oldest-first.
//
// An empty sinceHash, or one that does not occur in the log, yields the
// whole history: an unknown reference means everything is new. The
// reference commit itself is never part of the window.
func Window(l Log, sinceHash string) []Commit {
	commits := l.OldestFirst()
	if sinceHash == "" {
		return commits
	}
	for i, c := range commits {
		if c.ID == sinceHash {
			return commits[i+1:]
		}
	}
	return commits
}

// MessageMode selects how much of a commit message is classified.
type MessageMode string

const (
	// MessageFull classifies the whole commit message.
	MessageFull MessageMode = "full"
	// MessageSubject classifies only the first line.
	MessageSubject MessageMode = "subject"
)

// Messages renders each commit as "<lower-cased message> (<short hash>)",
// the form the classifier consumes.
func Messages(commits []Commit, mode MessageMode) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		text := c.Message
		if mode == MessageSubject {
			text = c.Subject()
		}
		out = append(out, fmt.Sprintf("%s (%s)", strings.ToLower(text), c.ShortHash()))
	}
	return out
}
