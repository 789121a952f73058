package controllers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/cartstore/api/middleware"
	"github.com/angelmondragon/cartstore/api/responses"
	"github.com/angelmondragon/cartstore/api/validators"
	"github.com/angelmondragon/cartstore/internal/cart"
	pkgerrors "github.com/angelmondragon/cartstore/pkg/errors"
	"github.com/angelmondragon/cartstore/pkg/logger"
)

const maxItemNameLength = 200

type addItemRequest struct {
	Name     string                `json:"name" validate:"required,max=200"`
	Price    validators.LooseValue `json:"price" validate:"required"`
	Quantity validators.LooseValue `json:"quantity"`
}

type changeQuantityRequest struct {
	Delta int `json:"delta" validate:"ne=0"`
}

// CartFetch renders the caller's cart.
func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		view, err := svc.Render(r.Context(), profileID)
		writeCartResult(r.Context(), logg, w, http.StatusOK, view, err)
	}
}

// CartAddItem adds an item or merges its quantity into the existing line.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddItem(r.Context(), profileID, cart.AddItemInput{
			Name:     validators.SanitizeString(payload.Name, maxItemNameLength),
			Price:    string(payload.Price),
			Quantity: string(payload.Quantity),
		})
		writeCartResult(r.Context(), logg, w, http.StatusCreated, view, err)
	}
}

// CartChangeQuantity applies a signed delta to one item.
func CartChangeQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		name, err := itemNameParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload changeQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ChangeQuantity(r.Context(), profileID, name, payload.Delta)
		writeCartResult(r.Context(), logg, w, http.StatusOK, view, err)
	}
}

// CartRemoveItem deletes one item.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		name, err := itemNameParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemoveItem(r.Context(), profileID, name)
		writeCartResult(r.Context(), logg, w, http.StatusOK, view, err)
	}
}

// CartClear empties the cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		view, err := svc.Clear(r.Context(), profileID)
		writeCartResult(r.Context(), logg, w, http.StatusOK, view, err)
	}
}

func requireProfile(w http.ResponseWriter, r *http.Request, svc any, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "service unavailable"))
		return "", false
	}
	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart profile missing"))
		return "", false
	}
	return profileID, true
}

// itemNameParam reads the {name} segment. chi matches on the decoded path
// unless the request carries a RawPath (an escaped "/" for instance), in which
// case the segment is still escaped.
func itemNameParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item name")
		}
		name = unescaped
	}
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	return name, nil
}

func writeCartResult(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, status int, view cart.View, err error) {
	if err != nil {
		responses.WriteError(ctx, logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, status, view)
}
