// Package drift compares a candidate snapshot against the trusted baseline
// and reports every deviation as a Finding.
package drift

import (
	"sort"

	"driftguard/internal/artifact"
	"driftguard/internal/snapshot"
)

// Kind represents the type of deviation for one identity key.
type Kind string

const (
	KindAdded    Kind = "added"    // key in candidate but not baseline
	KindRemoved  Kind = "removed"  // key in baseline but not candidate
	KindModified Kind = "modified" // key in both with differing payload
)

// Severity tags a finding as privilege/persistence relevant or merely
// informational. Assigned by the severity classifier, never by Detect.
type Severity string

const (
	SeverityAlert Severity = "alert"
	SeverityInfo  Severity = "info"
)

// Finding is one detected deviation between baseline and candidate.
// Before/After carry the attribute payloads on the respective side; Before is
// absent for added keys and After for removed ones.
type Finding struct {
	Class    artifact.Class    `json:"class"`
	Kind     Kind              `json:"kind"`
	Key      string            `json:"key"`
	Before   map[string]string `json:"before,omitempty"`
	After    map[string]string `json:"after,omitempty"`
	Severity Severity          `json:"severity,omitempty"`
}

// Detect compares candidate against baseline per artifact class and returns
// all findings. It is a pure function of its inputs: no hidden state,
// deterministic ordering (class enumeration order, then identity key).
//
// Classes flagged with a collection error on either snapshot are skipped
// entirely — an intentionally-empty, error-flagged set must not surface as
// "everything removed". Severity is left unset; the classifier fills it in.
func Detect(baseline, candidate snapshot.Snapshot) []Finding {
	findings := []Finding{}

	for _, class := range artifact.Classes {
		if baseline.ClassFailed(class) || candidate.ClassFailed(class) {
			continue
		}
		findings = append(findings, diffClass(class,
			baseline.ClassEntries(class),
			candidate.ClassEntries(class))...)
	}

	return findings
}

// diffClass compares the canonical entry sets of one class. Comparison is
// exact on identity key and order-independent deep equality on attributes.
func diffClass(class artifact.Class, before, after []artifact.Entry) []Finding {
	beforeByKey := make(map[string]artifact.Entry, len(before))
	for _, e := range before {
		beforeByKey[e.Key] = e
	}
	afterByKey := make(map[string]artifact.Entry, len(after))
	for _, e := range after {
		afterByKey[e.Key] = e
	}

	allKeys := make(map[string]bool, len(beforeByKey)+len(afterByKey))
	for k := range beforeByKey {
		allKeys[k] = true
	}
	for k := range afterByKey {
		allKeys[k] = true
	}

	keys := make([]string, 0, len(allKeys))
	for k := range allKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var findings []Finding
	for _, key := range keys {
		b, inBefore := beforeByKey[key]
		a, inAfter := afterByKey[key]

		switch {
		case inBefore && !inAfter:
			findings = append(findings, Finding{
				Class:  class,
				Kind:   KindRemoved,
				Key:    key,
				Before: b.Attrs,
			})
		case !inBefore && inAfter:
			findings = append(findings, Finding{
				Class: class,
				Kind:  KindAdded,
				Key:   key,
				After: a.Attrs,
			})
		case !artifact.AttrsEqual(b.Attrs, a.Attrs):
			findings = append(findings, Finding{
				Class:  class,
				Kind:   KindModified,
				Key:    key,
				Before: b.Attrs,
				After:  a.Attrs,
			})
		}
	}
	return findings
}
