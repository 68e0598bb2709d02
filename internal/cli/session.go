package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/wire"
)

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in to the backend and store the session",
		Long: `Log in with an admin or tecnico account. The token is stored locally and
sent on every authenticated request until you log out.

Examples:
  bluehome login juan
  echo "$PASS" | bluehome login juan --password-stdin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = p
			}
			if password == "" {
				password = os.Getenv("BLUEHOME_PASSWORD")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = p
			}

			_, err := wire.SessionAdapterWithOutput(cmd.OutOrStdout()).Login(cmd.Context(), primary.LoginRequest{
				Username: args[0],
				Password: password,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (prefer --password-stdin or BLUEHOME_PASSWORD)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SessionAdapterWithOutput(cmd.OutOrStdout()).Logout(cmd.Context())
		},
	}
}

// WhoAmICmd returns the whoami command
func WhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the session and the technician you act as",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.SessionAdapterWithOutput(cmd.OutOrStdout()).WhoAmI(cmd.Context(), asTechnician)
			return err
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
