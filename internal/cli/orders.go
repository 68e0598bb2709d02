package cli

import (
	"github.com/spf13/cobra"

	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/wire"
)

// OrdersCmd returns the orders command
func OrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Administer work orders",
		Long:  `List, inspect, export and change the status of work orders. Requires login.`,
	}

	cmd.AddCommand(ordersListCmd())
	cmd.AddCommand(ordersShowCmd())
	cmd.AddCommand(ordersSetStatusCmd())
	cmd.AddCommand(ordersExportCmd())

	return cmd
}

func ordersListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Long: `List every order, optionally filtered by a case-insensitive search over
radicado, property code, tenant name and status.

Examples:
  bluehome orders list
  bluehome orders list --search "en proceso"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.OrderAdapterWithOutput(cmd.OutOrStdout()).List(cmd.Context(), search)
			return err
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter text")
	return cmd
}

func ordersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|radicado>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.OrderAdapterWithOutput(cmd.OutOrStdout()).Show(cmd.Context(), args[0])
			return err
		},
	}
}

func ordersSetStatusCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "set-status <id|radicado> <status>",
		Short: "Change an order's status",
		Long: `Change an order's status. The status may be a key (NEW, IN_PROGRESS,
DONE_WAITING_SIGN, CLOSED) or its label ("En proceso", ...).

Only forward moves are allowed:
  NEW -> IN_PROGRESS (needs an assignee)
  IN_PROGRESS -> DONE_WAITING_SIGN | CLOSED
  DONE_WAITING_SIGN -> CLOSED

--force skips these rules and is logged.

Examples:
  bluehome orders set-status BH-0007 closed
  bluehome orders set-status 12 NEW --force`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := order.ParseStatus(args[1])
			if err != nil {
				return err
			}
			_, err = wire.OrderAdapterWithOutput(cmd.OutOrStdout()).SetStatus(cmd.Context(), primary.SetStatusRequest{
				OrderID: args[0],
				Status:  status,
				Force:   force,
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "bypass the transition rules")
	return cmd
}

func ordersExportCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export the board to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.OrderAdapterWithOutput(cmd.OutOrStdout()).Export(cmd.Context(), args[0], search)
			return err
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter text")
	return cmd
}
