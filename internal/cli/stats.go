package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/folio/internal/app"
)

func newStatsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show blueprint and contract counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withState(func(st *app.State) error {
				sum := st.Summary()
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), sum)
				}
				printSummary(cmd.OutOrStdout(), sum)
				return nil
			})
		},
	}
}
