package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kendall-kelly/shopstore/models"
	"github.com/kendall-kelly/shopstore/store"
)

func (a *app) newProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Add, list, update and delete products",
	}
	cmd.AddCommand(
		a.newProductAddCmd(),
		a.newProductListCmd(),
		a.newProductGetCmd(),
		a.newProductUpdateCmd(),
		a.newProductDeleteCmd(),
	)
	return cmd
}

func bindProductFlags(cmd *cobra.Command, p *models.Product) {
	cmd.Flags().StringVar(&p.Name, "name", "", "product name")
	cmd.Flags().Float64Var(&p.Price, "price", 0, "unit price")
	cmd.Flags().StringVar(&p.Category, "category", "", "category (default "+models.DefaultCategory+")")
	cmd.Flags().IntVar(&p.Quantity, "quantity", 0, "units in stock")
}

func (a *app) newProductAddCmd() *cobra.Command {
	var p models.Product
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.store.Products.Add(cmd.Context(), &p)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "product %d added", id)
			return nil
		},
	}
	bindProductFlags(cmd, &p)
	return cmd
}

func (a *app) newProductListCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products in id order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var products []models.Product
			var err error
			if name != "" {
				products, err = a.store.Products.FindByName(cmd.Context(), name)
			} else {
				products, err = a.store.Products.All(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(products) == 0 {
				notice(cmd.OutOrStdout(), "no products found")
				return nil
			}
			return printProducts(cmd, products)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "only products whose name contains this text")
	return cmd
}

func (a *app) newProductGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.store.Products.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printProducts(cmd, []models.Product{p})
		},
	}
}

func (a *app) newProductUpdateCmd() *cobra.Command {
	var input models.Product
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the given fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.store.Products.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = input.Name
			}
			if flags.Changed("price") {
				p.Price = input.Price
			}
			if flags.Changed("category") {
				p.Category = input.Category
			}
			if flags.Changed("quantity") {
				p.Quantity = input.Quantity
			}
			if err := a.store.Products.Update(cmd.Context(), p); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "product %d updated", id)
			return nil
		},
	}
	bindProductFlags(cmd, &input)
	return cmd
}

func (a *app) newProductDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product no order uses and renumber the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Products.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return a.compactAfterDelete(cmd, store.KindProducts, "product", id)
		},
	}
}

func printProducts(cmd *cobra.Command, products []models.Product) error {
	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			money(p.Price),
			p.Category,
			strconv.Itoa(p.Quantity),
		}
	}
	return table(cmd.OutOrStdout(), []string{"id", "name", "price", "category", "quantity"}, rows)
}
