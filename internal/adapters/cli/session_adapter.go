package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pipemene/bluehome-os/internal/ports/primary"
)

// SessionAdapter renders login state.
type SessionAdapter struct {
	service primary.SessionService
	out     io.Writer
}

// NewSessionAdapter creates a new SessionAdapter with the given service.
func NewSessionAdapter(service primary.SessionService, out io.Writer) *SessionAdapter {
	return &SessionAdapter{
		service: service,
		out:     out,
	}
}

// Login authenticates and reports the resolved identity.
func (a *SessionAdapter) Login(ctx context.Context, req primary.LoginRequest) (*primary.Session, error) {
	s, err := a.service.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Logged in as %s\n", s.Username)
	if s.Identity.Name != "" {
		fmt.Fprintf(a.out, "  Technician: %s", s.Identity.Name)
		if s.Identity.Role != "" {
			fmt.Fprintf(a.out, " (%s)", s.Identity.Role)
		}
		fmt.Fprintln(a.out)
	}
	return s, nil
}

// Logout forgets the stored credential.
func (a *SessionAdapter) Logout(ctx context.Context) error {
	if err := a.service.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "✓ Logged out")
	return nil
}

// WhoAmI prints the session and the acting identity.
func (a *SessionAdapter) WhoAmI(ctx context.Context, override string) (*primary.Identity, error) {
	s, err := a.service.Current(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		fmt.Fprintln(a.out, "Not logged in.")
	} else {
		fmt.Fprintf(a.out, "User:       %s (since %s)\n", s.Username, s.SavedAt.Local().Format("2006-01-02 15:04"))
	}

	id, err := a.service.WhoAmI(ctx, override)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "Technician: %s", id.Name)
	if id.Role != "" {
		fmt.Fprintf(a.out, " (%s)", id.Role)
	}
	fmt.Fprintf(a.out, " [from %s]\n", id.Source)
	return id, nil
}
