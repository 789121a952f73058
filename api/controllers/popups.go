package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/cartstore/api/responses"
	"github.com/angelmondragon/cartstore/api/validators"
	"github.com/angelmondragon/cartstore/pkg/logger"
)

type popupService interface {
	Visible(ctx context.Context, profileID string) ([]string, error)
	CloseAll(ctx context.Context, profileID string) error
	HandleClick(ctx context.Context, profileID string, targetClasses []string) (bool, error)
}

type popupsResponse struct {
	Visible []string `json:"visible"`
}

type popupClickRequest struct {
	Classes []string `json:"classes"`
}

// PopupsFetch lists the visible popup panels.
func PopupsFetch(svc popupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		writeVisiblePopups(w, r, svc, logg, profileID)
	}
}

// PopupsClose hides every popup panel.
func PopupsClose(svc popupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		if err := svc.CloseAll(r.Context(), profileID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, popupsResponse{Visible: []string{}})
	}
}

// PopupsClick forwards a click; a click on the backdrop closes all popups.
func PopupsClick(svc popupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(w, r, svc, logg)
		if !ok {
			return
		}
		var payload popupClickRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := svc.HandleClick(r.Context(), profileID, payload.Classes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeVisiblePopups(w, r, svc, logg, profileID)
	}
}

func writeVisiblePopups(w http.ResponseWriter, r *http.Request, svc popupService, logg *logger.Logger, profileID string) {
	visible, err := svc.Visible(r.Context(), profileID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, popupsResponse{Visible: visible})
}
