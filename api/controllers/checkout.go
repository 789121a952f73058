package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/cartstore/api/responses"
	"github.com/angelmondragon/cartstore/pkg/logger"
)

type checkoutModal interface {
	Open(ctx context.Context, profileID string) error
	Close(ctx context.Context, profileID string) error
	IsOpen(ctx context.Context, profileID string) (bool, error)
}

type checkoutResponse struct {
	Open bool `json:"open"`
}

// CheckoutOpen shows the checkout modal. Nothing is submitted.
func CheckoutOpen(modal checkoutModal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, modal, logg)
		if !ok {
			return
		}
		if err := modal.Open(r.Context(), profileID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkoutResponse{Open: true})
	}
}

// CheckoutClose hides the checkout modal.
func CheckoutClose(modal checkoutModal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, modal, logg)
		if !ok {
			return
		}
		if err := modal.Close(r.Context(), profileID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkoutResponse{Open: false})
	}
}
