package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"driftguard/internal/artifact"
	"driftguard/internal/drift"
)

// FormatJSON renders the structured form: a full-fidelity serialization of
// the report with stable key ordering, suitable for machine parsing.
func FormatJSON(r Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText renders the narrative form: a header with both timestamps and
// severity counts, collection-failure notes, then every finding grouped in
// report order with a short description of the payload change.
func FormatText(r Report) string {
	var sb strings.Builder

	sb.WriteString("Linux Persistence & Privilege Escalation Detection Report\n")
	sb.WriteString(strings.Repeat("=", 58) + "\n")
	if r.Hostname != "" {
		sb.WriteString(fmt.Sprintf("Host:     %s\n", r.Hostname))
	}
	sb.WriteString(fmt.Sprintf("Run:      %s\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Baseline: %s\n", r.BaselineTime.UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Scan:     %s\n", r.ScanTime.UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Findings: %d alert(s), %d info, %d total\n",
		r.Summary.Alerts, r.Summary.Infos, r.Summary.Total))

	for _, ce := range r.CollectionErrors {
		sb.WriteString(fmt.Sprintf("[WARN] collection failed for %s (%s snapshot): %s — class not compared\n",
			ce.Class, ce.Snapshot, ce.Message))
	}

	if r.Summary.Total == 0 {
		sb.WriteString("\n[OK] No changes detected compared to baseline.\n")
		return sb.String()
	}

	var currentClass artifact.Class
	for _, f := range r.Findings {
		if f.Class != currentClass {
			currentClass = f.Class
			sb.WriteString(fmt.Sprintf("\n%s:\n", currentClass))
		}
		tag := "[INFO]"
		if f.Severity == drift.SeverityAlert {
			tag = "[ALERT]"
		}
		sb.WriteString(fmt.Sprintf("  %s %s: %s%s\n", tag, f.Kind, f.Key, describeChange(f)))
	}

	return sb.String()
}

// describeChange summarizes the payload difference for one finding.
func describeChange(f drift.Finding) string {
	switch f.Kind {
	case drift.KindAdded:
		return formatAttrs(f.After)
	case drift.KindRemoved:
		return formatAttrs(f.Before)
	case drift.KindModified:
		return " (" + describeModification(f.Before, f.After) + ")"
	}
	return ""
}

// describeModification names only the attributes that actually differ.
func describeModification(before, after map[string]string) string {
	keys := make(map[string]bool, len(before)+len(after))
	for k := range before {
		keys[k] = true
	}
	for k := range after {
		keys[k] = true
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	var parts []string
	for _, k := range names {
		b, a := before[k], after[k]
		if b == a {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %q -> %q", k, b, a))
	}
	return strings.Join(parts, ", ")
}

// formatAttrs renders a payload inline, attribute keys sorted.
func formatAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, attrs[k]))
	}
	return " (" + strings.Join(parts, " ") + ")"
}
