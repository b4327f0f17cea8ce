package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/mementolabs/companion/pkg/store"
)

const (
	credTokenKey = "cred/token"
	credRoleKey  = "cred/role"
)

// CredentialStore persists the bearer token and role between runs so the
// session can restore its view on restart.
type CredentialStore struct {
	s store.Store
}

// NewCredentialStore wraps a key-value store.
func NewCredentialStore(s store.Store) *CredentialStore {
	return &CredentialStore{s: s}
}

// Save stores the token and role.
func (c *CredentialStore) Save(ctx context.Context, token, role string) error {
	if err := c.s.Put(ctx, credTokenKey, []byte(token)); err != nil {
		return fmt.Errorf("session: save token: %w", err)
	}
	if err := c.s.Put(ctx, credRoleKey, []byte(role)); err != nil {
		return fmt.Errorf("session: save role: %w", err)
	}
	return nil
}

// Load returns the persisted token and role. Absence is not an error; both
// come back empty.
func (c *CredentialStore) Load(ctx context.Context) (token, role string, err error) {
	t, err := c.s.Get(ctx, credTokenKey)
	if errors.Is(err, store.ErrNotFound) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("session: load token: %w", err)
	}
	r, err := c.s.Get(ctx, credRoleKey)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", "", fmt.Errorf("session: load role: %w", err)
	}
	return string(t), string(r), nil
}

// Clear removes the persisted credentials.
func (c *CredentialStore) Clear(ctx context.Context) error {
	if err := c.s.Delete(ctx, credTokenKey); err != nil {
		return fmt.Errorf("session: clear token: %w", err)
	}
	if err := c.s.Delete(ctx, credRoleKey); err != nil {
		return fmt.Errorf("session: clear role: %w", err)
	}
	return nil
}
