// Package cli wires the baseline and detect commands and maps run outcomes
// to the exit-status contract: 0 clean, 2 alerts present, 1 run failed.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"driftguard/internal/baseline"
)

// Exit codes for the invoking process. Alerts present is success of the tool
// with signal, distinct from a failed run.
const (
	ExitOK        = 0
	ExitRunFailed = 1
	ExitAlerts    = 2
)

// errAlertsFound signals a successful detection run that produced at least
// one alert-severity finding.
var errAlertsFound = errors.New("alert findings present")

var rootCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:           "driftguard",
		Short:         "Baseline and drift detection for Linux persistence and privilege-escalation artifacts",
		Long:          "driftguard captures a trusted baseline of security-relevant system state (UID-0 accounts, SUID binaries, sudoers rules, cron jobs, enabled services, SSH authorized keys) and detects deviations from it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("baseline-file", baseline.DefaultPath(), "Trusted baseline location")
	rootCmd.PersistentFlags().StringP("output", "o", "./reports", "Report output directory")
	rootCmd.PersistentFlags().Duration("timeout", 15*time.Second, "Per-class collection time budget")
	_ = viper.BindPFlag("baseline-file", rootCmd.PersistentFlags().Lookup("baseline-file"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	// Environment variable support (DRIFTGUARD_OUTPUT, etc.)
	viper.SetEnvPrefix("DRIFTGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(newBaselineCmd())
	rootCmd.AddCommand(newDetectCmd())
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	code := exitCode(err)
	if code == ExitRunFailed {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return code
}

// exitCode maps a command outcome to the exit-status contract. Alerts are a
// successful run with signal, not a tool failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errAlertsFound):
		return ExitAlerts
	default:
		return ExitRunFailed
	}
}
