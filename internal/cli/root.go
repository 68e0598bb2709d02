// Package cli holds the bluehome cobra commands.
package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pipemene/bluehome-os/internal/ctxutil"
	"github.com/pipemene/bluehome-os/internal/version"
	"github.com/pipemene/bluehome-os/internal/wire"
)

// skipWire marks commands that run without services.
const skipWire = "bluehome/skip-wire"

var (
	configPath   string
	asTechnician string
)

// RootCmd returns the bluehome root command with every sub-command attached.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bluehome",
		Short:   "Blue Home work orders from the terminal",
		Version: version.String(),
		Long: `bluehome files tenant repair requests, lets administrators triage them,
and lets technicians claim orders, record their work and close them with a
signed PDF report that is emailed to the tenant.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(commandContext(cmd.Context()))
			wire.SetConfigPath(configPath)
			if cmd.Annotations[skipWire] == "true" {
				return nil
			}
			return wire.Init()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.bluehome/config.yaml)")
	cmd.PersistentFlags().StringVar(&asTechnician, "as", "", "act as this technician instead of the session identity")

	cmd.AddCommand(InitCmd())
	cmd.AddCommand(LoginCmd())
	cmd.AddCommand(LogoutCmd())
	cmd.AddCommand(WhoAmICmd())
	cmd.AddCommand(RequestCmd())
	cmd.AddCommand(OrdersCmd())
	cmd.AddCommand(TechCmd())
	cmd.AddCommand(WorkCmd())

	return cmd
}

// actorContext resolves the acting technician and attaches it to the
// command's context.
func actorContext(cmd *cobra.Command) (context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	id, err := wire.SessionService().WhoAmI(ctx, asTechnician)
	if err != nil {
		return nil, err
	}
	return ctxutil.WithActor(ctx, id.Name), nil
}

// commandContext pins one request ID for every backend call of a command,
// keeping an ID the caller already set.
func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctxutil.RequestIDFromContext(ctx) != "" {
		return ctx
	}
	return ctxutil.WithRequestID(ctx, uuid.NewString())
}
