package snapshot

import (
	"context"
	"os"
	"time"

	"driftguard/internal/artifact"
)

// Collector produces the raw entry set for one artifact class. Collect must
// honor ctx cancellation; a returned error marks the class as failed without
// aborting the run.
type Collector interface {
	Class() artifact.Class
	Collect(ctx context.Context) ([]artifact.Entry, error)
}

// Build runs every collector, normalizes the results, and assembles an
// immutable Snapshot. Each collector gets its own bounded time budget so a
// slow or hung source for one class never blocks the others. Collection
// errors are absorbed into Snapshot.Errors per the failure policy.
func Build(ctx context.Context, collectors []Collector, perClassTimeout time.Duration) Snapshot {
	hostname, _ := os.Hostname()

	snap := Snapshot{
		Timestamp: time.Now().UTC(),
		Hostname:  hostname,
		Entries:   make(map[artifact.Class][]artifact.Entry, len(collectors)),
		Errors:    make(map[artifact.Class]string),
	}

	for _, c := range collectors {
		classCtx, cancel := context.WithTimeout(ctx, perClassTimeout)
		entries, err := c.Collect(classCtx)
		cancel()

		if err != nil {
			snap.Entries[c.Class()] = []artifact.Entry{}
			snap.Errors[c.Class()] = err.Error()
			continue
		}
		snap.Entries[c.Class()] = artifact.Normalize(entries)
	}

	if len(snap.Errors) == 0 {
		snap.Errors = nil
	}
	return snap
}
