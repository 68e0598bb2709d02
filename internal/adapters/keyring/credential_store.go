// Package keyring stores the session credential in the OS keychain.
package keyring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

const (
	// Service is the keychain service name.
	Service = "bluehome"
	account = "session"
)

type entry struct {
	Username string    `json:"username"`
	Token    string    `json:"token"`
	SavedAt  time.Time `json:"savedAt"`
}

// CredentialStore implements secondary.CredentialStore on the OS keychain.
type CredentialStore struct {
	service string
}

// NewCredentialStore creates a keychain-backed credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{service: Service}
}

// Load returns the stored credential, or nil when logged out.
func (s *CredentialStore) Load(ctx context.Context) (*secondary.Credential, error) {
	raw, err := gokeyring.Get(s.service, account)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keychain: %w", err)
	}
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, fmt.Errorf("failed to decode keychain entry: %w", err)
	}
	return &secondary.Credential{Username: e.Username, Token: e.Token, SavedAt: e.SavedAt}, nil
}

// Save replaces the stored credential.
func (s *CredentialStore) Save(ctx context.Context, cred secondary.Credential) error {
	raw, err := json.Marshal(entry{Username: cred.Username, Token: cred.Token, SavedAt: cred.SavedAt})
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := gokeyring.Set(s.service, account, string(raw)); err != nil {
		return fmt.Errorf("failed to write keychain: %w", err)
	}
	return nil
}

// Clear removes the stored credential.
func (s *CredentialStore) Clear(ctx context.Context) error {
	err := gokeyring.Delete(s.service, account)
	if err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return fmt.Errorf("failed to clear keychain: %w", err)
	}
	return nil
}

var _ secondary.CredentialStore = (*CredentialStore)(nil)
