package collect

import "driftguard/internal/snapshot"

// Defaults returns the full collector set in artifact-class enumeration
// order, reading the standard system locations.
func Defaults() []snapshot.Collector {
	return []snapshot.Collector{
		NewUIDZeroUsers(),
		NewSUIDBinaries(),
		NewSudoers(),
		NewCronJobs(),
		NewSystemdUnits(),
		NewSSHAuthorizedKeys(),
	}
}
