package collect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftguard/internal/artifact"
)

func TestParseUnitFiles(t *testing.T) {
	out := `UNIT FILE        STATE   PRESET
cron.service     enabled enabled
sshd.service     enabled disabled
getty@.service   static  -
apparmor.service masked  enabled

3 unit files listed.
`

	entries := parseUnitFiles(out)

	require.Len(t, entries, 2)
	assert.Equal(t, "cron.service", entries[0].Key)
	assert.Equal(t, "enabled", entries[0].Attrs["state"])
	assert.Equal(t, "sshd.service", entries[1].Key)
}

func TestParseUnitFilesEmptyOutput(t *testing.T) {
	assert.Empty(t, parseUnitFiles(""))
	assert.Empty(t, parseUnitFiles("0 unit files listed.\n"))
}

func TestSystemdUnitsUnavailable(t *testing.T) {
	c := &SystemdUnits{SystemctlBin: "definitely-not-systemctl-xyz"}
	require.Equal(t, artifact.ClassSystemdUnits, c.Class())

	_, err := c.Collect(context.Background())

	assert.Error(t, err)
}
