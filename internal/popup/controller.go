// Package popup tracks the per-product confirmation popups shown after an item
// is added to the cart.
package popup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"

	pkgerrors "github.com/angelmondragon/cartstore/pkg/errors"
	"github.com/angelmondragon/cartstore/pkg/logger"
	"github.com/angelmondragon/cartstore/pkg/metrics"
	"github.com/angelmondragon/cartstore/pkg/storage"
)

// StorageKey holds the visible panel ids inside a profile scope.
const StorageKey = "popups"

// BackdropClass marks the element whose click dismisses every popup.
const BackdropClass = "popup"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Panel is a registered popup panel.
type Panel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Controller shows and hides popup panels for a profile.
type Controller struct {
	store   storage.Store
	logg    *logger.Logger
	metrics *metrics.CartMetrics

	mu     sync.RWMutex
	panels map[string]string
}

// NewController constructs a popup controller over the provided store.
func NewController(store storage.Store, logg *logger.Logger, m *metrics.CartMetrics) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Controller{
		store:   store,
		logg:    logg,
		metrics: m,
		panels:  map[string]string{},
	}, nil
}

// Register declares the panel for name and returns its id. Two names that
// normalize to the same id share one panel; the first registration keeps it.
func (c *Controller) Register(name string) string {
	id := PanelID(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.panels[id]; ok {
		if existing != name {
			ctx := c.logg.WithFields(context.Background(), map[string]any{
				"panel_id": id,
				"existing": existing,
				"name":     name,
			})
			c.logg.Warn(ctx, "popup.id_collision")
		}
		return id
	}
	c.panels[id] = name
	return id
}

// Panels lists the registered panels ordered by id.
func (c *Controller) Panels() []Panel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Panel, 0, len(c.panels))
	for id, name := range c.panels {
		out = append(out, Panel{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Controller) registered(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.panels[id]
	return ok
}

// Show makes the panel for name visible. A name without a registered panel is
// logged and otherwise ignored.
func (c *Controller) Show(ctx context.Context, profileID, name string) error {
	id := PanelID(name)
	if !c.registered(id) {
		c.metrics.IncPopupMissing()
		c.logg.Warn(c.logg.WithField(ctx, "panel_id", id), "popup not found")
		return nil
	}

	visible, err := c.Visible(ctx, profileID)
	if err != nil {
		return err
	}
	for _, v := range visible {
		if v == id {
			return nil
		}
	}
	return c.write(ctx, profileID, append(visible, id))
}

// CloseAll hides every popup panel.
func (c *Controller) CloseAll(ctx context.Context, profileID string) error {
	if err := c.store.Remove(ctx, profileID, StorageKey); err != nil {
		return wrapStorage(err, "close popups")
	}
	return nil
}

// HandleClick closes all popups when the click target is the popup backdrop.
// It reports whether anything was dismissed.
func (c *Controller) HandleClick(ctx context.Context, profileID string, targetClasses []string) (bool, error) {
	if !hasClass(targetClasses, BackdropClass) {
		return false, nil
	}
	if err := c.CloseAll(ctx, profileID); err != nil {
		return false, err
	}
	return true, nil
}

// Visible returns the ids of the panels currently shown for the profile.
func (c *Controller) Visible(ctx context.Context, profileID string) ([]string, error) {
	raw, ok, err := c.store.Get(ctx, profileID, StorageKey)
	if err != nil {
		return nil, wrapStorage(err, "load popups")
	}
	if !ok {
		return []string{}, nil
	}
	var ids []string
	if err := json.UnmarshalFromString(raw, &ids); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "popup.corrupt_state_discarded")
		return []string{}, nil
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (c *Controller) write(ctx context.Context, profileID string, ids []string) error {
	raw, err := json.MarshalToString(ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode popups")
	}
	if err := c.store.Set(ctx, profileID, StorageKey, raw); err != nil {
		return wrapStorage(err, "save popups")
	}
	return nil
}

func hasClass(classes []string, want string) bool {
	for _, class := range classes {
		if class == want {
			return true
		}
	}
	return false
}

func wrapStorage(err error, msg string) error {
	if errors.Is(err, storage.ErrScopeRequired) {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart profile is required")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
