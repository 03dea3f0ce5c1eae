// Package report assembles classified findings and run metadata into the
// final detection report and renders it in a structured and a narrative form.
// Both forms derive from the same Report value, so they can never disagree.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"driftguard/internal/artifact"
	"driftguard/internal/drift"
	"driftguard/internal/snapshot"
)

// Summary holds per-severity finding counts.
type Summary struct {
	Alerts int `json:"alerts"`
	Infos  int `json:"infos"`
	Total  int `json:"total"`
}

// ClassError records a collection failure note carried into the report so a
// skipped class is visible rather than silently clean.
type ClassError struct {
	Class    artifact.Class `json:"class"`
	Snapshot string         `json:"snapshot"` // "baseline" or "candidate"
	Message  string         `json:"message"`
}

// Report is the complete result of one detection run. Findings are ordered:
// artifact class in enumeration order, severity descending (alerts first),
// kind, then identity key ascending.
type Report struct {
	RunID            string          `json:"runId"`
	Hostname         string          `json:"hostname,omitempty"`
	BaselineTime     time.Time       `json:"baselineTime"`
	ScanTime         time.Time       `json:"scanTime"`
	Findings         []drift.Finding `json:"findings"`
	CollectionErrors []ClassError    `json:"collectionErrors,omitempty"`
	Summary          Summary         `json:"summary"`
}

// HasAlerts reports whether any finding carries alert severity.
func (r Report) HasAlerts() bool {
	return r.Summary.Alerts > 0
}

// Build assembles a Report from classified findings and the two snapshots.
// Findings are copied and sorted; the inputs are never mutated.
func Build(baseline, candidate snapshot.Snapshot, findings []drift.Finding) Report {
	ordered := make([]drift.Finding, len(findings))
	copy(ordered, findings)
	sortFindings(ordered)

	r := Report{
		RunID:        uuid.NewString(),
		Hostname:     candidate.Hostname,
		BaselineTime: baseline.Timestamp,
		ScanTime:     candidate.Timestamp,
		Findings:     ordered,
	}

	for _, f := range ordered {
		r.Summary.Total++
		if f.Severity == drift.SeverityAlert {
			r.Summary.Alerts++
		} else {
			r.Summary.Infos++
		}
	}

	for _, class := range artifact.Classes {
		if msg, ok := baseline.Errors[class]; ok {
			r.CollectionErrors = append(r.CollectionErrors, ClassError{Class: class, Snapshot: "baseline", Message: msg})
		}
		if msg, ok := candidate.Errors[class]; ok {
			r.CollectionErrors = append(r.CollectionErrors, ClassError{Class: class, Snapshot: "candidate", Message: msg})
		}
	}

	return r
}

var kindOrder = map[drift.Kind]int{
	drift.KindAdded:    0,
	drift.KindModified: 1,
	drift.KindRemoved:  2,
}

func sortFindings(findings []drift.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if ai, bi := artifact.Index(a.Class), artifact.Index(b.Class); ai != bi {
			return ai < bi
		}
		if a.Severity != b.Severity {
			return a.Severity == drift.SeverityAlert
		}
		if ka, kb := kindOrder[a.Kind], kindOrder[b.Kind]; ka != kb {
			return ka < kb
		}
		return a.Key < b.Key
	})
}
