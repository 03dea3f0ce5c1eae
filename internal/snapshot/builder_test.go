package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftguard/internal/artifact"
)

type fakeCollector struct {
	class   artifact.Class
	entries []artifact.Entry
	err     error
}

func (f fakeCollector) Class() artifact.Class { return f.class }
func (f fakeCollector) Collect(ctx context.Context) ([]artifact.Entry, error) {
	return f.entries, f.err
}

// blockingCollector never returns until its context is cancelled.
type blockingCollector struct {
	class artifact.Class
}

func (b blockingCollector) Class() artifact.Class { return b.class }
func (b blockingCollector) Collect(ctx context.Context) ([]artifact.Entry, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBuildNormalizesEntries(t *testing.T) {
	collectors := []Collector{
		fakeCollector{
			class: artifact.ClassSudoers,
			entries: []artifact.Entry{
				{Key: "zrule"},
				{Key: "arule"},
				{Key: "zrule"},
			},
		},
	}

	snap := Build(context.Background(), collectors, time.Second)

	entries := snap.ClassEntries(artifact.ClassSudoers)
	require.Len(t, entries, 2)
	assert.Equal(t, "arule", entries[0].Key)
	assert.Equal(t, "zrule", entries[1].Key)
	assert.Nil(t, snap.Errors)
	assert.False(t, snap.Timestamp.IsZero())
}

func TestBuildAbsorbsCollectorFailure(t *testing.T) {
	collectors := []Collector{
		fakeCollector{class: artifact.ClassSystemdUnits, err: errors.New("systemctl not found")},
		fakeCollector{
			class:   artifact.ClassUIDZeroUsers,
			entries: []artifact.Entry{{Key: "root", Attrs: map[string]string{"uid": "0"}}},
		},
	}

	snap := Build(context.Background(), collectors, time.Second)

	// Failed class: empty set plus recorded error flag.
	assert.Empty(t, snap.ClassEntries(artifact.ClassSystemdUnits))
	assert.True(t, snap.ClassFailed(artifact.ClassSystemdUnits))
	assert.Equal(t, "systemctl not found", snap.Errors[artifact.ClassSystemdUnits])

	// A failed class never blocks collection of the others.
	assert.False(t, snap.ClassFailed(artifact.ClassUIDZeroUsers))
	require.Len(t, snap.ClassEntries(artifact.ClassUIDZeroUsers), 1)
}

func TestBuildBoundsSlowCollectors(t *testing.T) {
	collectors := []Collector{
		blockingCollector{class: artifact.ClassSUIDBinaries},
		fakeCollector{class: artifact.ClassSudoers, entries: []artifact.Entry{{Key: "rule"}}},
	}

	done := make(chan Snapshot, 1)
	go func() {
		done <- Build(context.Background(), collectors, 20*time.Millisecond)
	}()

	select {
	case snap := <-done:
		assert.True(t, snap.ClassFailed(artifact.ClassSUIDBinaries))
		assert.False(t, snap.ClassFailed(artifact.ClassSudoers))
	case <-time.After(5 * time.Second):
		t.Fatal("Build did not return; per-class timeout not applied")
	}
}

func TestAllFailed(t *testing.T) {
	healthy := Snapshot{
		Entries: map[artifact.Class][]artifact.Entry{artifact.ClassSudoers: {}},
	}
	assert.False(t, healthy.AllFailed())

	partial := Snapshot{
		Errors: map[artifact.Class]string{artifact.ClassSudoers: "unreadable"},
	}
	assert.False(t, partial.AllFailed())

	allBroken := Snapshot{Errors: map[artifact.Class]string{}}
	for _, class := range artifact.Classes {
		allBroken.Errors[class] = "unavailable"
	}
	assert.True(t, allBroken.AllFailed())
}
