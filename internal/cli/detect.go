package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"driftguard/internal/baseline"
	"driftguard/internal/collect"
	"driftguard/internal/drift"
	"driftguard/internal/report"
	"driftguard/internal/severity"
	"driftguard/internal/snapshot"
)

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Capture the current state and report drift against the baseline",
		Long:  "Collects a candidate snapshot, compares it against the trusted baseline, classifies every deviation, and writes the detection report. Exits 2 when alert-severity findings are present.",
		RunE:  runDetect,
	}

	cmd.Flags().String("policy", "", "YAML severity policy override")
	cmd.Flags().Bool("json", false, "Print the structured report to stdout instead of the narrative")
	_ = viper.BindPFlag("policy", cmd.Flags().Lookup("policy"))
	_ = viper.BindPFlag("detect.json", cmd.Flags().Lookup("json"))

	return cmd
}

func runDetect(cmd *cobra.Command, _ []string) error {
	// The baseline must load before any collection or diffing: detection
	// without a trusted reference cannot proceed.
	store := baseline.NewStore(viper.GetString("baseline-file"))
	base, err := store.Load()
	if err != nil {
		return err
	}

	policy := severity.Default()
	if path := viper.GetString("policy"); path != "" {
		policy, err = severity.Load(path)
		if err != nil {
			return err
		}
	}

	candidate := snapshot.Build(cmd.Context(), collect.Defaults(), viper.GetDuration("timeout"))
	if candidate.AllFailed() {
		return fmt.Errorf("collection entirely unavailable, no artifact class could be captured")
	}

	findings := policy.Apply(drift.Detect(base, candidate))
	rep := report.Build(base, candidate, findings)

	if viper.GetBool("detect.json") {
		out, err := report.FormatJSON(rep)
		if err != nil {
			return fmt.Errorf("serialize report: %w", err)
		}
		fmt.Println(out)
	} else {
		fmt.Print(report.FormatText(rep))
	}

	written, err := report.WriteFiles(rep, viper.GetString("output"))
	for _, path := range written {
		fmt.Fprintf(os.Stderr, "Report written: %s\n", path)
	}
	if err != nil {
		if len(written) == 0 {
			return err
		}
		// One form made it to disk; the findings are preserved.
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	if rep.HasAlerts() {
		return errAlertsFound
	}
	return nil
}
