package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"driftguard/internal/artifact"
	"driftguard/internal/baseline"
	"driftguard/internal/collect"
	"driftguard/internal/snapshot"
)

func newBaselineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "baseline",
		Short: "Capture the current system state as the trusted baseline",
		Long:  "Collects every artifact class from a known-clean system and saves the snapshot as the trusted reference for later detection runs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := snapshot.Build(cmd.Context(), collect.Defaults(), viper.GetDuration("timeout"))
			if snap.AllFailed() {
				return fmt.Errorf("collection entirely unavailable, refusing to save an empty baseline")
			}

			store := baseline.NewStore(viper.GetString("baseline-file"))
			if err := store.Save(snap); err != nil {
				return fmt.Errorf("save baseline: %w", err)
			}

			fmt.Printf("Baseline saved to %s\n", store.Path)
			for _, class := range artifact.Classes {
				if msg, failed := snap.Errors[class]; failed {
					fmt.Printf("  %-20s collection failed: %s\n", class, msg)
					continue
				}
				fmt.Printf("  %-20s %d entries\n", class, len(snap.ClassEntries(class)))
			}
			return nil
		},
	}
}
