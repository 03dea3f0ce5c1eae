package collect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"driftguard/internal/artifact"
)

// Sudoers collects the effective sudo rule lines from the main sudoers file
// and every drop-in file. Rule text is the identity: a rule that moves
// between files keeps its identity, the move shows up in the source payload.
type Sudoers struct {
	MainPath  string
	DropInDir string
}

// NewSudoers returns a collector reading the system sudoers configuration.
func NewSudoers() *Sudoers {
	return &Sudoers{MainPath: "/etc/sudoers", DropInDir: "/etc/sudoers.d"}
}

func (c *Sudoers) Class() artifact.Class { return artifact.ClassSudoers }

// Collect returns one entry per normalized rule line: identity = rule text
// with comments stripped and whitespace collapsed, attrs = {source}. The main
// file must be readable; a missing drop-in directory is not an error.
func (c *Sudoers) Collect(ctx context.Context) ([]artifact.Entry, error) {
	data, err := os.ReadFile(c.MainPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.MainPath, err)
	}

	entries := rulesFromFile(string(data), c.MainPath)

	dropIns, err := os.ReadDir(c.DropInDir)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.DropInDir, err)
	}

	for _, d := range dropIns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.IsDir() {
			continue
		}
		path := filepath.Join(c.DropInDir, d.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue // unreadable drop-in, rules from the rest still count
		}
		entries = append(entries, rulesFromFile(string(data), path)...)
	}

	return entries, nil
}

// rulesFromFile extracts normalized rule lines from one sudoers file.
func rulesFromFile(content, source string) []artifact.Entry {
	var entries []artifact.Entry
	for _, line := range strings.Split(content, "\n") {
		rule := normalizeLine(line)
		if rule == "" {
			continue
		}
		entries = append(entries, artifact.Entry{
			Key:   rule,
			Attrs: map[string]string{"source": source},
		})
	}
	return entries
}

// normalizeLine strips comments and collapses incidental whitespace so that
// formatting differences never produce spurious findings. Returns "" for
// blank and comment lines. #include directives are kept: they change what
// sudo trusts, so they are rules in their own right.
func normalizeLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#include") {
		return ""
	}
	return strings.Join(strings.Fields(line), " ")
}
