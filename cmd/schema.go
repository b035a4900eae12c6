package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kendall-kelly/shopstore/store"
)

func (a *app) newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create missing tables and columns and list the managed tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			m := a.db.Migrator()

			rows := make([][]string, 0, len(store.TableNames))
			for _, name := range store.TableNames {
				status := "missing"
				if m.HasTable(name) {
					status = "ok"
				}
				rows = append(rows, []string{name, status})
			}
			if err := table(out, []string{"table", "status"}, rows); err != nil {
				return err
			}
			success(out, "schema ready (%s)", a.db.Dialector.Name())
			return nil
		},
	}
}
