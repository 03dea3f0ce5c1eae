package collect

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"driftguard/internal/artifact"
)

// UIDZeroUsers collects accounts with UID 0 from the passwd database. Any
// account besides root holding UID 0 is a classic privilege-escalation
// backdoor, so the whole account row is captured as payload.
type UIDZeroUsers struct {
	PasswdPath string
}

// NewUIDZeroUsers returns a collector reading the system passwd file.
func NewUIDZeroUsers() *UIDZeroUsers {
	return &UIDZeroUsers{PasswdPath: "/etc/passwd"}
}

func (c *UIDZeroUsers) Class() artifact.Class { return artifact.ClassUIDZeroUsers }

// Collect parses the passwd file and returns one entry per UID-0 account:
// identity = username, attrs = {uid, shell, home}.
func (c *UIDZeroUsers) Collect(ctx context.Context) ([]artifact.Entry, error) {
	f, err := os.Open(c.PasswdPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.PasswdPath, err)
	}
	defer f.Close()

	var entries []artifact.Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// name:passwd:uid:gid:gecos:home:shell
		fields := strings.Split(line, ":")
		if len(fields) < 7 {
			continue
		}
		if fields[2] != "0" {
			continue
		}
		entries = append(entries, artifact.Entry{
			Key: fields[0],
			Attrs: map[string]string{
				"uid":   fields[2],
				"home":  fields[5],
				"shell": fields[6],
			},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", c.PasswdPath, err)
	}
	return entries, nil
}
