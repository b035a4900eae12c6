package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kendall-kelly/shopstore/models"
	"github.com/kendall-kelly/shopstore/store"
)

func (a *app) newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Add, list, update and delete clients",
	}
	cmd.AddCommand(
		a.newClientAddCmd(),
		a.newClientListCmd(),
		a.newClientGetCmd(),
		a.newClientUpdateCmd(),
		a.newClientDeleteCmd(),
	)
	return cmd
}

func bindClientFlags(cmd *cobra.Command, c *models.Client) {
	cmd.Flags().StringVar(&c.Name, "name", "", "client name")
	cmd.Flags().StringVar(&c.Email, "email", "", "email address")
	cmd.Flags().StringVar(&c.Phone, "phone", "", "phone number, optionally starting with +")
	cmd.Flags().StringVar(&c.Address, "address", "", "postal address")
}

func (a *app) newClientAddCmd() *cobra.Command {
	var c models.Client
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.store.Clients.Add(cmd.Context(), &c)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "client %d added", id)
			return nil
		},
	}
	bindClientFlags(cmd, &c)
	return cmd
}

func (a *app) newClientListCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients in id order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var clients []models.Client
			var err error
			if name != "" {
				clients, err = a.store.Clients.FindByName(cmd.Context(), name)
			} else {
				clients, err = a.store.Clients.All(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(clients) == 0 {
				notice(cmd.OutOrStdout(), "no clients found")
				return nil
			}
			return printClients(cmd, clients)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "only clients whose name contains this text")
	return cmd
}

func (a *app) newClientGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.store.Clients.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printClients(cmd, []models.Client{c})
		},
	}
}

func (a *app) newClientUpdateCmd() *cobra.Command {
	var input models.Client
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the given fields of a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.store.Clients.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				c.Name = input.Name
			}
			if flags.Changed("email") {
				c.Email = input.Email
			}
			if flags.Changed("phone") {
				c.Phone = input.Phone
			}
			if flags.Changed("address") {
				c.Address = input.Address
			}
			if err := a.store.Clients.Update(cmd.Context(), c); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "client %d updated", id)
			return nil
		},
	}
	bindClientFlags(cmd, &input)
	return cmd
}

func (a *app) newClientDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a client without orders and renumber the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Clients.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return a.compactAfterDelete(cmd, store.KindClients, "client", id)
		},
	}
}

func printClients(cmd *cobra.Command, clients []models.Client) error {
	rows := make([][]string, len(clients))
	for i, c := range clients {
		rows[i] = []string{strconv.FormatUint(uint64(c.ID), 10), c.Name, c.Email, c.Phone, c.Address}
	}
	return table(cmd.OutOrStdout(), []string{"id", "name", "email", "phone", "address"}, rows)
}

// compactAfterDelete renumbers kind so ids stay contiguous after a deletion
func (a *app) compactAfterDelete(cmd *cobra.Command, kind store.Kind, noun string, id uint) error {
	result, err := a.store.Compactor().Reindex(cmd.Context(), kind)
	if err != nil {
		return err
	}
	success(cmd.OutOrStdout(), "%s %d deleted; %d %s renumbered", noun, id, result.Renamed, kind)
	return nil
}
