package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/cartstore/api/responses"
	pkgAuth "github.com/angelmondragon/cartstore/pkg/auth"
	"github.com/angelmondragon/cartstore/pkg/config"
	pkgerrors "github.com/angelmondragon/cartstore/pkg/errors"
	"github.com/angelmondragon/cartstore/pkg/logger"
)

// Profile resolves the cart profile from its signed cookie. Clients without a
// valid cookie get a fresh profile and a new cookie, the way a new browser
// starts with empty local storage.
func Profile(cfg config.ProfileConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return profileWithClock(cfg, logg, time.Now)
}

func profileWithClock(cfg config.ProfileConfig, logg *logger.Logger, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var profileID string
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				claims, err := pkgAuth.ParseProfileToken(cfg, cookie.Value)
				if err == nil {
					profileID = claims.ProfileID.String()
				} else if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "profile.cookie_rejected")
				}
			}

			if profileID == "" {
				id := uuid.New()
				issued := now()
				token, err := pkgAuth.MintProfileToken(cfg, issued, id)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue cart profile"))
					return
				}
				cookie := &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				}
				if ttl := cfg.TTL(); ttl > 0 {
					cookie.Expires = issued.Add(ttl)
					cookie.MaxAge = int(ttl.Seconds())
				}
				http.SetCookie(w, cookie)
				profileID = id.String()
			}

			ctx = WithProfileID(ctx, profileID)
			if logg != nil {
				ctx = logg.WithProfileID(ctx, profileID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
