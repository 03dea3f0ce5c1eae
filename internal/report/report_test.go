package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftguard/internal/artifact"
	"driftguard/internal/drift"
	"driftguard/internal/snapshot"
)

func testSnapshots() (snapshot.Snapshot, snapshot.Snapshot) {
	base := snapshot.Snapshot{
		Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Hostname:  "web01",
		Entries:   map[artifact.Class][]artifact.Entry{},
	}
	candidate := snapshot.Snapshot{
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Hostname:  "web01",
		Entries:   map[artifact.Class][]artifact.Entry{},
	}
	return base, candidate
}

func testFindings() []drift.Finding {
	return []drift.Finding{
		{Class: artifact.ClassSudoers, Kind: drift.KindRemoved, Key: "bob ALL=(ALL) ALL", Severity: drift.SeverityInfo,
			Before: map[string]string{"source": "/etc/sudoers"}},
		{Class: artifact.ClassUIDZeroUsers, Kind: drift.KindAdded, Key: "eviluser", Severity: drift.SeverityAlert,
			After: map[string]string{"uid": "0", "shell": "/bin/sh"}},
		{Class: artifact.ClassSudoers, Kind: drift.KindAdded, Key: "mallory ALL=(ALL) NOPASSWD:ALL", Severity: drift.SeverityAlert,
			After: map[string]string{"source": "/etc/sudoers.d/90-x"}},
		{Class: artifact.ClassSUIDBinaries, Kind: drift.KindModified, Key: "/usr/bin/foo", Severity: drift.SeverityAlert,
			Before: map[string]string{"mode": "4755", "owner": "root"},
			After:  map[string]string{"mode": "4777", "owner": "root"}},
	}
}

func TestBuildOrdersAndCounts(t *testing.T) {
	base, candidate := testSnapshots()

	rep := Build(base, candidate, testFindings())

	require.Len(t, rep.Findings, 4)
	// Class enumeration order: uid0 before suid before sudoers; within
	// sudoers the alert precedes the info finding.
	assert.Equal(t, artifact.ClassUIDZeroUsers, rep.Findings[0].Class)
	assert.Equal(t, artifact.ClassSUIDBinaries, rep.Findings[1].Class)
	assert.Equal(t, artifact.ClassSudoers, rep.Findings[2].Class)
	assert.Equal(t, drift.SeverityAlert, rep.Findings[2].Severity)
	assert.Equal(t, drift.SeverityInfo, rep.Findings[3].Severity)

	assert.Equal(t, Summary{Alerts: 3, Infos: 1, Total: 4}, rep.Summary)
	assert.True(t, rep.HasAlerts())
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, base.Timestamp, rep.BaselineTime)
	assert.Equal(t, candidate.Timestamp, rep.ScanTime)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	base, candidate := testSnapshots()
	findings := testFindings()
	first := findings[0]

	_ = Build(base, candidate, findings)

	assert.Equal(t, first, findings[0])
}

func TestBuildCarriesCollectionErrors(t *testing.T) {
	base, candidate := testSnapshots()
	candidate.Errors = map[artifact.Class]string{
		artifact.ClassSystemdUnits: "systemctl timed out",
	}

	rep := Build(base, candidate, nil)

	require.Len(t, rep.CollectionErrors, 1)
	assert.Equal(t, artifact.ClassSystemdUnits, rep.CollectionErrors[0].Class)
	assert.Equal(t, "candidate", rep.CollectionErrors[0].Snapshot)
}

// TestRenderingConsistency checks that the structured and narrative forms of
// one report always carry identical severity counts.
func TestRenderingConsistency(t *testing.T) {
	base, candidate := testSnapshots()
	rep := Build(base, candidate, testFindings())

	structured, err := FormatJSON(rep)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal([]byte(structured), &decoded))
	assert.Equal(t, rep.Summary, decoded.Summary)
	assert.Len(t, decoded.Findings, rep.Summary.Total)

	narrative := FormatText(rep)
	assert.Equal(t, rep.Summary.Alerts, strings.Count(narrative, "[ALERT]"))
	assert.Equal(t, rep.Summary.Infos, strings.Count(narrative, "[INFO]"))
	assert.Contains(t, narrative, "3 alert(s), 1 info, 4 total")
}

func TestFormatTextNarrative(t *testing.T) {
	base, candidate := testSnapshots()
	candidate.Errors = map[artifact.Class]string{
		artifact.ClassSystemdUnits: "systemctl timed out",
	}
	rep := Build(base, candidate, testFindings())

	text := FormatText(rep)

	assert.Contains(t, text, "Baseline: 2026-08-01T12:00:00Z")
	assert.Contains(t, text, "Scan:     2026-08-30T12:00:00Z")
	assert.Contains(t, text, "Host:     web01")
	assert.Contains(t, text, "collection failed for systemd_services")
	assert.Contains(t, text, "class not compared")
	assert.Contains(t, text, "[ALERT] added: eviluser")
	// Modified findings name only the attribute that changed.
	assert.Contains(t, text, `mode: "4755" -> "4777"`)
	assert.NotContains(t, text, "owner: ")
}

func TestFormatTextCleanRun(t *testing.T) {
	base, candidate := testSnapshots()
	rep := Build(base, candidate, nil)

	text := FormatText(rep)

	assert.Contains(t, text, "[OK] No changes detected")
	assert.Contains(t, text, "0 alert(s), 0 info, 0 total")
}

func TestWriteFiles(t *testing.T) {
	base, candidate := testSnapshots()
	rep := Build(base, candidate, testFindings())
	dir := t.TempDir()

	written, err := WriteFiles(rep, dir)

	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, filepath.Join(dir, "detection_report_20260830_120000.json"), written[0])
	assert.Equal(t, filepath.Join(dir, "detection_report_20260830_120000.txt"), written[1])

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rep.RunID, decoded.RunID)

	text, err := os.ReadFile(written[1])
	require.NoError(t, err)
	assert.Contains(t, string(text), "[ALERT]")
}

// TestWriteFilesNarrativeSurvivesJSONFailure checks the best-effort fallback:
// when one form cannot be written the other is still produced.
func TestWriteFilesNarrativeSurvivesJSONFailure(t *testing.T) {
	base, candidate := testSnapshots()
	rep := Build(base, candidate, testFindings())

	dir := t.TempDir()
	// Pre-create the JSON path as a directory so that write fails.
	jsonPath := filepath.Join(dir, "detection_report_20260830_120000.json")
	require.NoError(t, os.MkdirAll(jsonPath, 0755))

	written, err := WriteFiles(rep, dir)

	assert.Error(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, filepath.Join(dir, "detection_report_20260830_120000.txt"), written[0])
}
