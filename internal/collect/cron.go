package collect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"driftguard/internal/artifact"
)

// CronJobs collects scheduled jobs from the system crontab, the cron.d
// drop-in directory, the periodic run-parts directories, and the invoking
// user's crontab. Cron is one of the most common persistence mechanisms, so
// both job lines and dropped script files are tracked.
type CronJobs struct {
	SystemCrontab string
	DropInDir     string
	PeriodicDirs  map[string]string // schedule name -> directory
	CrontabBin    string            // "" disables the user-crontab lookup
}

// NewCronJobs returns a collector reading the standard cron locations.
func NewCronJobs() *CronJobs {
	return &CronJobs{
		SystemCrontab: "/etc/crontab",
		DropInDir:     "/etc/cron.d",
		PeriodicDirs: map[string]string{
			"hourly":  "/etc/cron.hourly",
			"daily":   "/etc/cron.daily",
			"weekly":  "/etc/cron.weekly",
			"monthly": "/etc/cron.monthly",
		},
		CrontabBin: "crontab",
	}
}

func (c *CronJobs) Class() artifact.Class { return artifact.ClassCronJobs }

// Collect returns entries for every job line (identity = normalized line,
// attrs = {schedule, command, source}) and every periodic script (identity =
// script path, attrs = {schedule, source}). Individual missing sources are
// tolerated; the class fails only when every source is unavailable.
func (c *CronJobs) Collect(ctx context.Context) ([]artifact.Entry, error) {
	var entries []artifact.Entry
	sourcesRead := 0

	if data, err := os.ReadFile(c.SystemCrontab); err == nil {
		sourcesRead++
		entries = append(entries, jobLines(string(data), c.SystemCrontab, true)...)
	}

	if dropIns, err := os.ReadDir(c.DropInDir); err == nil {
		sourcesRead++
		for _, d := range dropIns {
			if d.IsDir() {
				continue
			}
			path := filepath.Join(c.DropInDir, d.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			entries = append(entries, jobLines(string(data), path, true)...)
		}
	}

	for schedule, dir := range c.PeriodicDirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		sourcesRead++
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			entries = append(entries, artifact.Entry{
				Key: filepath.Join(dir, f.Name()),
				Attrs: map[string]string{
					"schedule": schedule,
					"source":   dir,
				},
			})
		}
	}

	if c.CrontabBin != "" {
		if out, err := runCommand(ctx, c.CrontabBin, "-l"); err == nil {
			sourcesRead++
			entries = append(entries, jobLines(string(out), "user crontab", false)...)
		}
	}

	if sourcesRead == 0 {
		return nil, fmt.Errorf("no cron sources readable")
	}
	return entries, nil
}

// jobLines parses crontab content into job entries. Comments, blank lines,
// and VAR=value environment lines are skipped; whitespace is collapsed so
// alignment changes never register as drift. System crontabs carry a user
// field between the schedule and the command, user crontabs do not.
func jobLines(content, source string, hasUserField bool) []artifact.Entry {
	scheduleFields := 5
	commandIndex := scheduleFields
	if hasUserField {
		commandIndex++
	}

	var entries []artifact.Entry
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		// @reboot, @daily and friends collapse the schedule to one field.
		if strings.HasPrefix(fields[0], "@") {
			if len(fields) < 2 {
				continue
			}
			entries = append(entries, artifact.Entry{
				Key: strings.Join(fields, " "),
				Attrs: map[string]string{
					"schedule": fields[0],
					"command":  strings.Join(fields[1:], " "),
					"source":   source,
				},
			})
			continue
		}

		if len(fields) <= commandIndex {
			continue // environment line or malformed row
		}
		if strings.Contains(fields[0], "=") {
			continue
		}
		entries = append(entries, artifact.Entry{
			Key: strings.Join(fields, " "),
			Attrs: map[string]string{
				"schedule": strings.Join(fields[:scheduleFields], " "),
				"command":  strings.Join(fields[commandIndex:], " "),
				"source":   source,
			},
		})
	}
	return entries
}
