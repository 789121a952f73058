package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/cartstore/pkg/errors"
	"github.com/angelmondragon/cartstore/pkg/logger"
	"github.com/angelmondragon/cartstore/pkg/metrics"
)

// InvalidQuantityMessage is the user-facing message for a rejected quantity.
const InvalidQuantityMessage = "Please select a valid quantity."

const (
	opAdd    = "add_item"
	opChange = "change_quantity"
	opRemove = "remove_item"
	opClear  = "clear"
	opRender = "render"
)

// popupShower confirms an added item to the shopper.
type popupShower interface {
	Show(ctx context.Context, profileID, name string) error
}

// Service exposes the cart mutations. Every call returns the re-rendered view.
type Service interface {
	AddItem(ctx context.Context, profileID string, input AddItemInput) (View, error)
	ChangeQuantity(ctx context.Context, profileID, name string, delta int) (View, error)
	RemoveItem(ctx context.Context, profileID, name string) (View, error)
	Clear(ctx context.Context, profileID string) (View, error)
	Render(ctx context.Context, profileID string) (View, error)
}

// AddItemInput carries the raw form values of an add-to-cart action.
type AddItemInput struct {
	Name     string
	Price    string
	Quantity string
}

type service struct {
	repo    Repository
	popups  popupShower
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewService builds a cart service backed by the provided repository.
func NewService(repo Repository, popups popupShower, logg *logger.Logger, m *metrics.CartMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if popups == nil {
		return nil, fmt.Errorf("popup controller required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		popups:  popups,
		logg:    logg,
		metrics: m,
	}, nil
}

// AddItem merges quantity into the named item or appends a new one, then shows
// the item's confirmation popup.
func (s *service) AddItem(ctx context.Context, profileID string, input AddItemInput) (view View, err error) {
	defer s.observe(opAdd, time.Now(), &err)

	if err := requireProfile(profileID); err != nil {
		return View{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	qty, err := ParseQuantity(input.Quantity)
	if err != nil || qty <= 0 || qty > MaxQuantity {
		return View{}, invalidQuantity(input.Quantity)
	}
	price, err := ParsePrice(input.Price)
	if err != nil {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative number").
			WithDetails(map[string]any{"price": input.Price})
	}

	c, err := s.load(ctx, profileID)
	if err != nil {
		return View{}, err
	}
	next := c.clone()
	if idx := next.IndexOf(name); idx >= 0 {
		if next.Items[idx].Quantity > MaxQuantity-qty {
			return View{}, invalidQuantity(input.Quantity)
		}
		next.Items[idx].Quantity += qty
	} else {
		next.Items = append(next.Items, LineItem{Name: name, UnitPrice: price, Quantity: qty})
	}
	if err := s.save(ctx, profileID, next); err != nil {
		return View{}, err
	}

	if err := s.popups.Show(ctx, profileID, name); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "item", name), "cart.popup_show_failed", err)
	}
	return Render(next), nil
}

// ChangeQuantity adjusts the named item by delta. A result of zero or less
// removes the item.
func (s *service) ChangeQuantity(ctx context.Context, profileID, name string, delta int) (view View, err error) {
	defer s.observe(opChange, time.Now(), &err)

	if err := requireProfile(profileID); err != nil {
		return View{}, err
	}
	c, err := s.load(ctx, profileID)
	if err != nil {
		return View{}, err
	}
	idx := c.IndexOf(name)
	if idx < 0 {
		return View{}, itemNotFound(name)
	}

	current := c.Items[idx].Quantity
	if delta > 0 && current > MaxQuantity-delta {
		return View{}, invalidQuantity(fmt.Sprint(delta))
	}
	updated := current + delta
	next := c.clone()
	if updated <= 0 {
		next = c.without(idx)
	} else {
		next.Items[idx].Quantity = updated
	}
	if err := s.save(ctx, profileID, next); err != nil {
		return View{}, err
	}
	return Render(next), nil
}

// RemoveItem deletes the named item.
func (s *service) RemoveItem(ctx context.Context, profileID, name string) (view View, err error) {
	defer s.observe(opRemove, time.Now(), &err)

	if err := requireProfile(profileID); err != nil {
		return View{}, err
	}
	c, err := s.load(ctx, profileID)
	if err != nil {
		return View{}, err
	}
	idx := c.IndexOf(name)
	if idx < 0 {
		return View{}, itemNotFound(name)
	}
	next := c.without(idx)
	if err := s.save(ctx, profileID, next); err != nil {
		return View{}, err
	}
	return Render(next), nil
}

// Clear drops the persisted cart.
func (s *service) Clear(ctx context.Context, profileID string) (view View, err error) {
	defer s.observe(opClear, time.Now(), &err)

	if err := requireProfile(profileID); err != nil {
		return View{}, err
	}
	if err := s.repo.Delete(ctx, profileID); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return Render(Cart{}), nil
}

// Render reads the stored cart and returns its view without mutating anything.
func (s *service) Render(ctx context.Context, profileID string) (view View, err error) {
	defer s.observe(opRender, time.Now(), &err)

	if err := requireProfile(profileID); err != nil {
		return View{}, err
	}
	c, err := s.load(ctx, profileID)
	if err != nil {
		return View{}, err
	}
	return Render(c), nil
}

func (s *service) load(ctx context.Context, profileID string) (Cart, error) {
	c, err := s.repo.Load(ctx, profileID)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return c, nil
}

func (s *service) save(ctx context.Context, profileID string, c Cart) error {
	if err := s.repo.Save(ctx, profileID, c); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *service) observe(op string, start time.Time, errp *error) {
	outcome := metrics.OutcomeOK
	if errp != nil && *errp != nil {
		outcome = metrics.OutcomeError
		if typed := pkgerrors.As(*errp); typed != nil && typed.Code() != pkgerrors.CodeDependency && typed.Code() != pkgerrors.CodeInternal {
			outcome = metrics.OutcomeInvalid
		}
	}
	s.metrics.Observe(op, outcome, time.Since(start))
}

func requireProfile(profileID string) error {
	if strings.TrimSpace(profileID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart profile is required")
	}
	return nil
}

func invalidQuantity(raw string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, InvalidQuantityMessage).
		WithDetails(map[string]any{"quantity": raw})
}

func itemNotFound(name string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found").
		WithDetails(map[string]any{"name": name})
}
