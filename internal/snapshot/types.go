// Package snapshot builds and represents point-in-time captures of all
// artifact classes. A Snapshot is created once per collection run and never
// mutated afterwards; the trusted baseline is a Snapshot loaded read-only.
package snapshot

import (
	"time"

	"driftguard/internal/artifact"
)

// Snapshot is a normalized point-in-time capture of every artifact class.
// Entries are canonical per artifact.Normalize: sorted by identity key with
// unique keys per class. Errors records per-class collection failures; a
// class present in Errors yields an empty entry set and is excluded from
// drift comparison rather than treated as "everything removed".
type Snapshot struct {
	Timestamp time.Time                          `json:"timestamp"`
	Hostname  string                             `json:"hostname,omitempty"`
	Entries   map[artifact.Class][]artifact.Entry `json:"entries"`
	Errors    map[artifact.Class]string          `json:"collectionErrors,omitempty"`
}

// ClassEntries returns the canonical entry set for a class. Missing classes
// yield an empty set.
func (s Snapshot) ClassEntries(c artifact.Class) []artifact.Entry {
	return s.Entries[c]
}

// ClassFailed reports whether collection failed for the given class.
func (s Snapshot) ClassFailed(c artifact.Class) bool {
	_, ok := s.Errors[c]
	return ok
}

// AllFailed reports whether every class failed to collect. A candidate
// capture in this state carries no usable signal and aborts the run.
func (s Snapshot) AllFailed() bool {
	if len(s.Errors) == 0 {
		return false
	}
	for _, c := range artifact.Classes {
		if !s.ClassFailed(c) {
			return false
		}
	}
	return true
}
