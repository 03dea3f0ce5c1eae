// Package artifact defines the normalized data model for security-relevant
// system artifacts: the closed set of artifact classes, the canonical entry
// representation, and the normalization that makes two captures of an
// unchanged system compare as equal.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// Class identifies one category of security-relevant system state.
type Class string

const (
	ClassUIDZeroUsers  Class = "uid0_users"
	ClassSUIDBinaries  Class = "suid_binaries"
	ClassSudoers       Class = "sudoers"
	ClassCronJobs      Class = "cron_jobs"
	ClassSystemdUnits  Class = "systemd_services"
	ClassSSHAuthorized Class = "ssh_authorized_keys"
)

// Classes is the closed set of artifact classes in report enumeration order.
// Adding a class requires a collector in internal/collect and a row in the
// severity policy table together.
var Classes = []Class{
	ClassUIDZeroUsers,
	ClassSUIDBinaries,
	ClassSudoers,
	ClassCronJobs,
	ClassSystemdUnits,
	ClassSSHAuthorized,
}

// Index returns the position of c in the class enumeration, or len(Classes)
// for unknown classes so they sort last.
func Index(c Class) int {
	for i, k := range Classes {
		if k == c {
			return i
		}
	}
	return len(Classes)
}

// Entry is one identifiable item within a class: a stable identity key plus
// an opaque attribute payload. The key is comparison-significant; attributes
// are compared only when keys match, to detect modification.
type Entry struct {
	Key   string            `json:"key"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Normalize returns a canonical copy of entries: sorted by identity key and
// de-duplicated so keys are unique within a class. When the same key appears
// more than once the first occurrence wins. Source ordering and duplicates in
// raw data therefore never produce spurious findings.
func Normalize(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Key] {
			continue
		}
		seen[e.Key] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// AttrsEqual reports whether two attribute payloads are deeply equal,
// independent of field ordering.
func AttrsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || bv != v {
			return false
		}
	}
	return true
}

// ContentHash computes the SHA-256 hash of an entry set in canonical form.
// Returns the hash prefixed with "sha256:". Two normalized sets with the same
// entries always hash identically.
func ContentHash(entries []Entry) string {
	canonical := canonicalJSON(Normalize(entries))
	hash := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(hash[:])
}

// canonicalJSON produces deterministic JSON for an entry set: entries in key
// order, attribute keys sorted alphabetically, no whitespace.
func canonicalJSON(entries []Entry) []byte {
	result := []byte("[")
	for i, e := range entries {
		if i > 0 {
			result = append(result, ',')
		}
		keyJSON, _ := json.Marshal(e.Key)
		result = append(result, `{"key":`...)
		result = append(result, keyJSON...)
		result = append(result, `,"attrs":{`...)

		attrKeys := make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			attrKeys = append(attrKeys, k)
		}
		sort.Strings(attrKeys)
		for j, k := range attrKeys {
			if j > 0 {
				result = append(result, ',')
			}
			kJSON, _ := json.Marshal(k)
			vJSON, _ := json.Marshal(e.Attrs[k])
			result = append(result, kJSON...)
			result = append(result, ':')
			result = append(result, vJSON...)
		}
		result = append(result, "}}"...)
	}
	result = append(result, ']')
	return result
}
