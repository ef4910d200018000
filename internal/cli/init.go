package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/folio/internal/app"
)

func newInitCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize folio storage",
		Long: "Create the configuration and data directories, open the storage backend,\n" +
			"and report whether the default blueprint catalog was seeded. Every\n" +
			"command seeds the catalog the first time it opens a store.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withState(func(st *app.State) error {
				if s.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]any{
						"initialized_now": s.initializedNow,
						"seeded":          s.seeded,
						"blueprints":      len(st.ListBlueprints()),
					})
				}
				out := cmd.OutOrStdout()
				switch {
				case s.seeded > 0:
					fmt.Fprintf(out, "Folio initialized with %d default blueprints\n", s.seeded)
				case s.initializedNow:
					fmt.Fprintln(out, "Folio initialized; existing blueprints kept")
				default:
					fmt.Fprintln(out, "Folio already initialized")
				}
				return nil
			})
		},
	}
}
