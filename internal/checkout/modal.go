// Package checkout holds the presentational checkout modal. Opening it
// validates and submits nothing.
package checkout

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/angelmondragon/cartstore/pkg/errors"
	"github.com/angelmondragon/cartstore/pkg/storage"
)

const (
	// PanelID is the modal's element id and its storage key.
	PanelID   = "checkout-modal"
	openValue = "open"
)

// Modal toggles the checkout modal for a profile.
type Modal struct {
	store storage.Store
}

// NewModal constructs a modal backed by the provided store.
func NewModal(store storage.Store) (*Modal, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	return &Modal{store: store}, nil
}

// Open shows the modal.
func (m *Modal) Open(ctx context.Context, profileID string) error {
	if err := m.store.Set(ctx, profileID, PanelID, openValue); err != nil {
		return wrap(err, "open checkout modal")
	}
	return nil
}

// Close hides the modal.
func (m *Modal) Close(ctx context.Context, profileID string) error {
	if err := m.store.Remove(ctx, profileID, PanelID); err != nil {
		return wrap(err, "close checkout modal")
	}
	return nil
}

// IsOpen reports whether the modal is shown.
func (m *Modal) IsOpen(ctx context.Context, profileID string) (bool, error) {
	value, ok, err := m.store.Get(ctx, profileID, PanelID)
	if err != nil {
		return false, wrap(err, "load checkout modal")
	}
	return ok && value == openValue, nil
}

func wrap(err error, msg string) error {
	if errors.Is(err, storage.ErrScopeRequired) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart profile is required")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
