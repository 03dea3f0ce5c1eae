package collect

import (
	"context"
	"strings"

	"driftguard/internal/artifact"
)

// SystemdUnits collects service units in the enabled state. Newly enabled
// services are a standard persistence mechanism since they survive reboot.
type SystemdUnits struct {
	SystemctlBin string
}

// NewSystemdUnits returns a collector invoking the system systemctl.
func NewSystemdUnits() *SystemdUnits {
	return &SystemdUnits{SystemctlBin: "systemctl"}
}

func (c *SystemdUnits) Class() artifact.Class { return artifact.ClassSystemdUnits }

// Collect lists enabled service unit files: identity = unit name,
// attrs = {state}. Fails when systemctl is unavailable or times out.
func (c *SystemdUnits) Collect(ctx context.Context) ([]artifact.Entry, error) {
	out, err := runCommand(ctx, c.SystemctlBin,
		"list-unit-files", "--type=service", "--state=enabled", "--no-pager", "--plain", "--no-legend")
	if err != nil {
		return nil, err
	}
	return parseUnitFiles(string(out)), nil
}

// parseUnitFiles extracts unit entries from systemctl list-unit-files output.
// Rows look like "sshd.service enabled enabled"; header and summary lines
// that slip through are dropped by requiring a .service first column.
func parseUnitFiles(out string) []artifact.Entry {
	var entries []artifact.Entry
	for _, raw := range strings.Split(out, "\n") {
		fields := strings.Fields(raw)
		if len(fields) < 2 {
			continue
		}
		unit, state := fields[0], fields[1]
		if !strings.HasSuffix(unit, ".service") || state != "enabled" {
			continue
		}
		entries = append(entries, artifact.Entry{
			Key:   unit,
			Attrs: map[string]string{"state": state},
		})
	}
	return entries
}
