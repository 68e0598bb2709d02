package primary

import (
	"context"
	"time"
)

// SessionService defines the primary port for the session gate.
type SessionService interface {
	// Login exchanges credentials for a token and persists it.
	Login(ctx context.Context, req LoginRequest) (*Session, error)

	// Logout forgets the stored credential.
	Logout(ctx context.Context) error

	// Current returns the stored session, or nil when logged out.
	Current(ctx context.Context) (*Session, error)

	// WhoAmI resolves the technician identity. A non-empty override wins over
	// the credential's claims and the configured fallback name.
	WhoAmI(ctx context.Context, override string) (*Identity, error)
}

// LoginRequest contains parameters for logging in.
type LoginRequest struct {
	Username string
	Password string
}

// Session is the persisted credential as seen by callers.
type Session struct {
	Username string
	Token    string
	SavedAt  time.Time
	Identity Identity
}

// Identity is the technician the session acts as.
type Identity struct {
	ID     string
	Name   string
	Role   string
	Source string // claims, config or flag
}
