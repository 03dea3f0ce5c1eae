package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFiles persists both report forms into outDir as
// detection_report_<timestamp>.json and .txt. Rendering one form never
// blocks the other: if the structured write fails the narrative is still
// attempted, and vice versa, so computed findings are not lost to a single
// serialization failure. Returns the paths written and the first error.
func WriteFiles(r Report, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	stamp := r.ScanTime.UTC().Format("20060102_150405")
	jsonPath := filepath.Join(outDir, "detection_report_"+stamp+".json")
	textPath := filepath.Join(outDir, "detection_report_"+stamp+".txt")

	var written []string
	var firstErr error

	if data, err := FormatJSON(r); err != nil {
		firstErr = fmt.Errorf("serialize report: %w", err)
	} else if err := os.WriteFile(jsonPath, []byte(data), 0644); err != nil {
		firstErr = fmt.Errorf("write %s: %w", jsonPath, err)
	} else {
		written = append(written, jsonPath)
	}

	if err := os.WriteFile(textPath, []byte(FormatText(r)), 0644); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("write %s: %w", textPath, err)
		}
	} else {
		written = append(written, textPath)
	}

	return written, firstErr
}
