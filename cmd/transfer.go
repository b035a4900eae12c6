package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kendall-kelly/shopstore/exchange"
	"github.com/kendall-kelly/shopstore/store"
)

type transferFlags struct {
	kind string
	file string
}

func (f *transferFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", "", "clients, products or orders")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "file path; .csv, .json, .yaml or .yml")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("file")
}

func (a *app) newExportCmd() *cobra.Command {
	var flags transferFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all records of one kind to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := store.ParseKind(flags.kind)
			if err != nil {
				return err
			}
			n, err := exchange.New(a.store).Export(cmd.Context(), kind, flags.file)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "exported %d %s to %s", n, kind, flags.file)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func (a *app) newImportCmd() *cobra.Command {
	var flags transferFlags
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Add the records in a file, assigning new ids",
		Long: `Add the records in a file in one transaction. Ids in the file are ignored.
Orders whose client does not exist are skipped, as are items whose product
does not exist. Imported orders do not change stock.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := store.ParseKind(flags.kind)
			if err != nil {
				return err
			}
			report, err := exchange.New(a.store).Import(cmd.Context(), kind, flags.file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			success(out, "imported %d %s from %s (batch %s)", report.Imported, kind, flags.file, report.BatchID)
			if report.Skipped > 0 {
				notice(out, "skipped %d %s with unknown references", report.Skipped, kind)
			}
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}
