package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// CredentialStore implements secondary.CredentialStore with a single-row SQLite table.
type CredentialStore struct {
	db *sql.DB
}

// NewCredentialStore creates a new SQLite credential store.
func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Load returns the stored credential, or nil when logged out.
func (s *CredentialStore) Load(ctx context.Context) (*secondary.Credential, error) {
	var (
		cred    secondary.Credential
		savedAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT username, token, saved_at FROM session WHERE id = 1",
	).Scan(&cred.Username, &cred.Token, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	cred.SavedAt = savedAt.UTC()
	return &cred, nil
}

// Save replaces the stored credential.
func (s *CredentialStore) Save(ctx context.Context, cred secondary.Credential) error {
	savedAt := cred.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, username, token, saved_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			token = excluded.token,
			saved_at = excluded.saved_at`,
		cred.Username, cred.Token, savedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the stored credential.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

var _ secondary.CredentialStore = (*CredentialStore)(nil)
