package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// ErrNoIdentity is returned when no technician name can be resolved.
var ErrNoIdentity = errors.New("technician identity unknown: log in with a named account, set technician.name, or pass --as")

// SessionServiceImpl implements the SessionService interface.
type SessionServiceImpl struct {
	auth         secondary.AuthGateway
	store        secondary.CredentialStore
	fallbackName string
	now          func() time.Time
	logger       zerolog.Logger
}

// NewSessionService creates a new SessionService with injected dependencies.
// fallbackName is used as the technician name when the credential carries none.
func NewSessionService(
	auth secondary.AuthGateway,
	store secondary.CredentialStore,
	fallbackName string,
	logger zerolog.Logger,
) *SessionServiceImpl {
	return &SessionServiceImpl{
		auth:         auth,
		store:        store,
		fallbackName: strings.TrimSpace(fallbackName),
		now:          time.Now,
		logger:       logger,
	}
}

// Login exchanges credentials for a token and persists it.
func (s *SessionServiceImpl) Login(ctx context.Context, req primary.LoginRequest) (*primary.Session, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", order.ErrValidation)
	}

	token, err := s.auth.Login(ctx, username, req.Password)
	if err != nil {
		return nil, err
	}

	cred := secondary.Credential{Username: username, Token: token, SavedAt: s.now().UTC()}
	if err := s.store.Save(ctx, cred); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}
	s.logger.Info().Str("username", username).Msg("logged in")

	return s.toSession(cred), nil
}

// Logout forgets the stored credential.
func (s *SessionServiceImpl) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

// Current returns the stored session, or nil when logged out.
func (s *SessionServiceImpl) Current(ctx context.Context) (*primary.Session, error) {
	cred, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil || cred.Token == "" {
		return nil, nil
	}
	return s.toSession(*cred), nil
}

// WhoAmI resolves the technician identity.
func (s *SessionServiceImpl) WhoAmI(ctx context.Context, override string) (*primary.Identity, error) {
	if name := strings.TrimSpace(override); name != "" {
		return &primary.Identity{Name: name, Source: "flag"}, nil
	}

	session, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if session != nil && session.Identity.Name != "" {
		id := session.Identity
		return &id, nil
	}
	if s.fallbackName != "" {
		id := primary.Identity{Name: s.fallbackName, Source: "config"}
		if session != nil {
			id.ID = session.Identity.ID
			id.Role = session.Identity.Role
		}
		return &id, nil
	}
	return nil, ErrNoIdentity
}

func (s *SessionServiceImpl) toSession(cred secondary.Credential) *primary.Session {
	session := &primary.Session{
		Username: cred.Username,
		Token:    cred.Token,
		SavedAt:  cred.SavedAt,
	}
	if id, ok := identityFromToken(cred.Token); ok {
		session.Identity = id
	} else {
		session.Identity.ID = id.ID
		session.Identity.Role = id.Role
	}
	return session
}

var _ primary.SessionService = (*SessionServiceImpl)(nil)
