package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pulse-lab/pulse/internal/core/storage"
)

// KeyPseudoID is the counter key holding the device's pseudo identity.
const KeyPseudoID = "pseudo_id"

// Provider issues and retrieves the stable pseudonymous identifier of a device.
type Provider struct {
	newID func() string
}

// NewProvider creates a provider issuing random (v4) UUIDs.
func NewProvider() *Provider {
	return &Provider{newID: uuid.NewString}
}

// Identify returns the device's pseudo identity, issuing and persisting a new
// one on first use. created reports whether the identity was issued by this
// call. A read failure is returned as an error rather than silently replaced
// with a fresh identity, which would split one device into two users.
func (p *Provider) Identify(ctx context.Context, store storage.CounterStore) (id string, created bool, err error) {
	found, err := store.Get(ctx, KeyPseudoID, &id)
	if err != nil {
		return "", false, fmt.Errorf("read pseudo identity: %w", err)
	}
	if found && id != "" {
		return id, false, nil
	}

	id = p.newID()
	if err := store.Set(ctx, KeyPseudoID, id); err != nil {
		return "", false, fmt.Errorf("persist pseudo identity: %w", err)
	}

	slog.Debug("[Identity] Issued pseudo identity", "user_pseudo_id", id)
	return id, true, nil
}
