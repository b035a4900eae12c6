package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kendall-kelly/shopstore/store"
)

func (a *app) newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "reindex [clients|products|orders|all]",
		Short:     "Renumber ids to 1..N, carrying every reference along",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"clients", "products", "orders", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []store.ReindexResult
			if len(args) == 0 || args[0] == "all" {
				all, err := a.store.Compactor().ReindexAll(cmd.Context())
				if err != nil {
					return err
				}
				results = all
			} else {
				kind, err := store.ParseKind(args[0])
				if err != nil {
					return err
				}
				result, err := a.store.Compactor().Reindex(cmd.Context(), kind)
				if err != nil {
					return err
				}
				results = append(results, result)
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				success(out, "%s: %d rows, %d renumbered", r.Kind, r.Rows, r.Renamed)
				if r.Rows > 0 && !r.SequenceReset {
					notice(out, "%s: id counter was not reset", r.Kind)
				}
			}
			return nil
		},
	}
}
