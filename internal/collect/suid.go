package collect

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"syscall"

	"driftguard/internal/artifact"
)

// SUIDBinaries walks the system binary directories for files carrying the
// set-user-ID bit. The walk is bounded to the standard binary roots rather
// than the whole filesystem, matching the trade-off of a periodic host scan.
type SUIDBinaries struct {
	Roots []string
}

// NewSUIDBinaries returns a collector scanning the standard binary roots.
func NewSUIDBinaries() *SUIDBinaries {
	return &SUIDBinaries{Roots: []string{"/bin", "/sbin", "/usr/bin", "/usr/sbin"}}
}

func (c *SUIDBinaries) Class() artifact.Class { return artifact.ClassSUIDBinaries }

// Collect returns one entry per SUID binary: identity = absolute path,
// attrs = {mode, owner}. Unreadable subtrees are skipped; the class only
// fails when none of the roots exist at all.
func (c *SUIDBinaries) Collect(ctx context.Context) ([]artifact.Entry, error) {
	var entries []artifact.Entry
	rootsSeen := 0

	for _, root := range c.Roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		rootsSeen++

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				return nil // unreadable entry, keep walking
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if info.Mode()&os.ModeSetuid == 0 {
				return nil
			}
			entries = append(entries, artifact.Entry{
				Key: path,
				Attrs: map[string]string{
					"mode":  modeOctal(info),
					"owner": fileOwner(info),
				},
			})
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("scan %s: %w", root, walkErr)
		}
	}

	if rootsSeen == 0 {
		return nil, fmt.Errorf("no suid scan roots present: %v", c.Roots)
	}
	return entries, nil
}

// modeOctal renders permission bits the way ls and find show them, with the
// setuid/setgid/sticky bits folded into the leading octal digit (e.g. 4755).
func modeOctal(info fs.FileInfo) string {
	m := info.Mode()
	bits := uint32(m.Perm())
	if m&os.ModeSetuid != 0 {
		bits |= 0o4000
	}
	if m&os.ModeSetgid != 0 {
		bits |= 0o2000
	}
	if m&os.ModeSticky != 0 {
		bits |= 0o1000
	}
	return strconv.FormatUint(uint64(bits), 8)
}

// fileOwner resolves the owning user name, falling back to the numeric UID
// when the account is not in the user database.
func fileOwner(info fs.FileInfo) string {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return ""
	}
	uid := strconv.FormatUint(uint64(st.Uid), 10)
	if u, err := user.LookupId(uid); err == nil {
		return u.Username
	}
	return uid
}
