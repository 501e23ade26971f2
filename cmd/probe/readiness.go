package probe

import (
	"github.com/spf13/cobra"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long:  `Calls /-/ready of the running server. Exits non-zero until the wallet session is restored.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProbe(cmd, "/-/ready")
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}
