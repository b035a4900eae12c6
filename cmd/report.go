package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kendall-kelly/shopstore/report"
)

func (a *app) newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summaries of the order history",
	}

	var limit int
	topClients := &cobra.Command{
		Use:   "top-clients",
		Short: "Clients with the most orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := report.New(a.store).TopClients(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				notice(out, "no orders")
				return nil
			}
			heading(out, fmt.Sprintf("Top %d clients by orders", len(rows)))
			cells := make([][]string, len(rows))
			for i, r := range rows {
				cells[i] = []string{strconv.Itoa(i + 1), strconv.FormatUint(uint64(r.ClientID), 10), r.Name, strconv.Itoa(r.Orders)}
			}
			return table(out, []string{"rank", "id", "client", "orders"}, cells)
		},
	}
	topClients.Flags().IntVarP(&limit, "limit", "n", report.DefaultTopClients, "number of clients to show")

	dynamics := &cobra.Command{
		Use:   "dynamics",
		Short: "Number of orders per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := report.New(a.store).OrderDynamics(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(days) == 0 {
				notice(out, "no orders")
				return nil
			}
			cells := make([][]string, len(days))
			for i, d := range days {
				cells[i] = []string{d.Date.String(), strconv.Itoa(d.Orders)}
			}
			return table(out, []string{"date", "orders"}, cells)
		},
	}

	graph := &cobra.Command{
		Use:   "graph",
		Short: "Which clients bought which products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := report.New(a.store).ClientProductGraph(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(g.Edges) == 0 {
				notice(out, "no purchases")
				return nil
			}
			clients := make(map[uint]string, len(g.Clients))
			for _, n := range g.Clients {
				clients[n.ID] = n.Name
			}
			products := make(map[uint]string, len(g.Products))
			for _, n := range g.Products {
				products[n.ID] = n.Name
			}
			heading(out, fmt.Sprintf("%d clients, %d products, %d links", len(g.Clients), len(g.Products), len(g.Edges)))
			for _, e := range g.Edges {
				fmt.Fprintf(out, "%s -> %s\n", clients[e.ClientID], products[e.ProductID])
			}
			return nil
		},
	}

	cmd.AddCommand(topClients, dynamics, graph)
	return cmd
}
