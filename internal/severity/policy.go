// Package severity classifies raw drift findings. The classification rules
// live in a declarative policy table (class × kind → severity) so policy can
// change without touching the diff engine.
package severity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"driftguard/internal/artifact"
	"driftguard/internal/drift"
)

// Policy maps artifact class and drift kind to a severity level.
type Policy map[artifact.Class]map[drift.Kind]drift.Severity

// Default returns the built-in policy table. Every added or modified entry is
// privilege- or persistence-relevant and alerts; removals are informational
// by default since loss of privilege or persistence is not itself an attack
// signal.
func Default() Policy {
	p := make(Policy, len(artifact.Classes))
	for _, class := range artifact.Classes {
		p[class] = map[drift.Kind]drift.Severity{
			drift.KindAdded:    drift.SeverityAlert,
			drift.KindModified: drift.SeverityAlert,
			drift.KindRemoved:  drift.SeverityInfo,
		}
	}
	return p
}

// Load reads a policy override from a YAML file and merges it over the
// default table. The file maps class names to kind/severity pairs:
//
//	suid_binaries:
//	  removed: alert
//
// Unknown classes, kinds, or severity values are rejected.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("policy file not found: %s", path)
		}
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	p := Default()
	for className, kinds := range raw {
		class := artifact.Class(className)
		if _, known := p[class]; !known {
			return nil, fmt.Errorf("policy file %s: unknown artifact class %q", path, className)
		}
		for kindName, levelName := range kinds {
			kind := drift.Kind(kindName)
			if kind != drift.KindAdded && kind != drift.KindRemoved && kind != drift.KindModified {
				return nil, fmt.Errorf("policy file %s: unknown kind %q for class %q", path, kindName, className)
			}
			level := drift.Severity(levelName)
			if level != drift.SeverityAlert && level != drift.SeverityInfo {
				return nil, fmt.Errorf("policy file %s: unknown severity %q for %s/%s", path, levelName, className, kindName)
			}
			p[class][kind] = level
		}
	}
	return p, nil
}

// Classify returns the severity for one class/kind pair. Pairs missing from
// the table fall back to info so classification stays total even if a policy
// override trimmed a row.
func (p Policy) Classify(class artifact.Class, kind drift.Kind) drift.Severity {
	if kinds, ok := p[class]; ok {
		if level, ok := kinds[kind]; ok {
			return level
		}
	}
	return drift.SeverityInfo
}

// Apply tags every finding with its severity and returns a new slice. The
// input findings are never mutated; every output finding carries exactly one
// severity.
func (p Policy) Apply(findings []drift.Finding) []drift.Finding {
	out := make([]drift.Finding, len(findings))
	for i, f := range findings {
		f.Severity = p.Classify(f.Class, f.Kind)
		out[i] = f
	}
	return out
}
