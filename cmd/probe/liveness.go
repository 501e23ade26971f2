package probe

import (
	"github.com/spf13/cobra"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long:  `Calls /-/healthy of the running server. Exits non-zero if storage is unreachable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProbe(cmd, "/-/healthy")
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}
