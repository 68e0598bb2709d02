package cli

import (
	"github.com/spf13/cobra"

	"github.com/pipemene/bluehome-os/internal/wire"
)

// TechCmd returns the tech command
func TechCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tech",
		Short: "Technician board",
		Long: `See the orders you can claim and those assigned to you.
You act as the technician named in your session, the technician.name
config value, or --as.`,
	}

	cmd.AddCommand(techBoardCmd())
	cmd.AddCommand(techClaimCmd())

	return cmd
}

func techBoardCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show available and assigned orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := actorContext(cmd)
			if err != nil {
				return err
			}
			_, err = wire.TechnicianAdapterWithOutput(cmd.OutOrStdout()).Board(ctx, search)
			return err
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter text")
	return cmd
}

func techClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <id|radicado>",
		Short: "Take an unassigned order and start it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := actorContext(cmd)
			if err != nil {
				return err
			}
			_, err = wire.TechnicianAdapterWithOutput(cmd.OutOrStdout()).Claim(ctx, args[0])
			return err
		},
	}
}
