package collect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"driftguard/internal/artifact"
)

// SSHAuthorizedKeys collects authorized_keys entries for root and every
// account under the home root. A dropped public key grants login that
// survives password changes, making it a prime persistence artifact.
type SSHAuthorizedKeys struct {
	RootKeysPath string
	HomeRoot     string
}

// NewSSHAuthorizedKeys returns a collector reading the standard key paths.
func NewSSHAuthorizedKeys() *SSHAuthorizedKeys {
	return &SSHAuthorizedKeys{
		RootKeysPath: "/root/.ssh/authorized_keys",
		HomeRoot:     "/home",
	}
}

func (c *SSHAuthorizedKeys) Class() artifact.Class { return artifact.ClassSSHAuthorized }

// Collect returns one entry per authorized key: identity =
// "user:SHA256-fingerprint" (or "user:<line>" for unparseable lines),
// attrs = {type, options, source}. Missing key files are normal; the class
// fails only when the home root itself cannot be listed.
func (c *SSHAuthorizedKeys) Collect(ctx context.Context) ([]artifact.Entry, error) {
	var entries []artifact.Entry

	entries = append(entries, keysForUser("root", c.RootKeysPath)...)

	homes, err := os.ReadDir(c.HomeRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.HomeRoot, err)
	}

	for _, h := range homes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !h.IsDir() {
			continue
		}
		path := filepath.Join(c.HomeRoot, h.Name(), ".ssh", "authorized_keys")
		entries = append(entries, keysForUser(h.Name(), path)...)
	}

	return entries, nil
}

// keysForUser parses one authorized_keys file. A missing or unreadable file
// simply contributes no entries.
func keysForUser(username, path string) []artifact.Entry {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entries []artifact.Entry
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, keyEntry(username, line, path))
	}
	return entries
}

// keyEntry normalizes one key line. The fingerprint, not the raw line, is
// the identity: re-wrapping or re-commenting a key must not read as a new
// key, while any actual key-material change must.
func keyEntry(username, line, source string) artifact.Entry {
	pub, _, options, _, err := ssh.ParseAuthorizedKey([]byte(line))
	if err != nil {
		// Unparseable line: fall back to the raw text as identity so it is
		// still tracked rather than silently dropped.
		return artifact.Entry{
			Key:   username + ":" + line,
			Attrs: map[string]string{"source": source},
		}
	}
	return artifact.Entry{
		Key: username + ":" + ssh.FingerprintSHA256(pub),
		Attrs: map[string]string{
			"type":    pub.Type(),
			"options": strings.Join(options, ","),
			"source":  source,
		},
	}
}
