package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kendall-kelly/shopstore/models"
	"github.com/kendall-kelly/shopstore/store"
)

func (a *app) newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "List, show, delete and check out orders",
	}
	cmd.AddCommand(
		a.newOrderListCmd(),
		a.newOrderGetCmd(),
		a.newOrderDeleteCmd(),
		a.newCheckoutCmd(),
	)
	return cmd
}

func (a *app) newOrderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List orders in id order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.store.Orders.All(cmd.Context())
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				notice(cmd.OutOrStdout(), "no orders found")
				return nil
			}
			rows := make([][]string, len(orders))
			for i, o := range orders {
				rows[i] = []string{
					strconv.FormatUint(uint64(o.ID), 10),
					clientName(o),
					o.Date.String(),
					strconv.Itoa(len(o.Items)),
					money(o.Total()),
				}
			}
			return table(cmd.OutOrStdout(), []string{"id", "client", "date", "items", "total"}, rows)
		},
	}
}

func (a *app) newOrderGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one order with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			o, err := a.store.Orders.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printOrder(cmd, o)
		},
	}
}

func (a *app) newOrderDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an order and renumber the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Orders.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return a.compactAfterDelete(cmd, store.KindOrders, "order", id)
		},
	}
}

func (a *app) newCheckoutCmd() *cobra.Command {
	var (
		clientID uint
		items    []string
		discount float64
		date     string
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order, taking the items out of stock",
		Long: `Place an order for one client. Every item is checked against current stock;
if any item cannot be served the whole order is rejected and stock is unchanged.

Examples:

  shopstore order checkout --client 1 --item 2:3 --item 5:1
  shopstore order checkout --client 1 --item 2:3 --discount 0.1 --date 2024-05-01
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			checkout := a.store.NewCheckout()

			client, err := a.store.Clients.Get(ctx, clientID)
			if err != nil {
				return err
			}
			if err := checkout.SelectClient(client); err != nil {
				return err
			}
			for _, raw := range items {
				productID, quantity, err := parseItemFlag(raw)
				if err != nil {
					return err
				}
				product, err := a.store.Products.Get(ctx, productID)
				if err != nil {
					return err
				}
				if err := checkout.AddItem(product, quantity); err != nil {
					return err
				}
			}
			if err := checkout.SetDiscount(discount); err != nil {
				return err
			}
			if date != "" {
				d, err := models.ParseDate(date)
				if err != nil {
					return err
				}
				if err := checkout.SetDate(d); err != nil {
					return err
				}
			}

			order, err := checkout.Commit(ctx)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "order %d placed for %s, total %s", order.ID, client.Name, money(order.Total()))
			return nil
		},
	}
	cmd.Flags().UintVar(&clientID, "client", 0, "ordering client id")
	cmd.Flags().StringArrayVar(&items, "item", nil, "product_id:quantity, repeatable")
	cmd.Flags().Float64Var(&discount, "discount", 0, "discount fraction in [0, 1)")
	cmd.Flags().StringVar(&date, "date", "", "order date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

func parseItemFlag(s string) (uint, int, error) {
	pid, qty, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid item %q: expected product_id:quantity", s)
	}
	productID, err := parseID(strings.TrimSpace(pid))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid item %q: %w", s, err)
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid item %q: quantity is not an integer", s)
	}
	return productID, quantity, nil
}

func clientName(o models.Order) string {
	if o.Client == nil {
		return "unknown"
	}
	return o.Client.Name
}

func printOrder(cmd *cobra.Command, o models.Order) error {
	out := cmd.OutOrStdout()
	heading(out, fmt.Sprintf("Order %d", o.ID))
	fmt.Fprintf(out, "Client:   %s\n", clientName(o))
	fmt.Fprintf(out, "Date:     %s\n", o.Date)
	if o.Discount > 0 {
		fmt.Fprintf(out, "Discount: %.0f%%\n", o.Discount*100)
	}
	fmt.Fprintln(out)

	rows := make([][]string, len(o.Items))
	for i, item := range o.Items {
		name := "unknown"
		if item.Product != nil {
			name = item.Product.Name
		}
		rows[i] = []string{
			strconv.FormatUint(uint64(item.ProductID), 10),
			name,
			strconv.Itoa(item.Quantity),
			money(item.Price()),
			money(item.Price() * float64(item.Quantity)),
		}
	}
	if err := table(out, []string{"product", "name", "qty", "price", "amount"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTotal:    %s\n", money(o.Total()))
	return nil
}
