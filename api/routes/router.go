package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/cartstore/api/controllers"
	"github.com/angelmondragon/cartstore/api/middleware"
	"github.com/angelmondragon/cartstore/internal/cart"
	"github.com/angelmondragon/cartstore/internal/checkout"
	"github.com/angelmondragon/cartstore/internal/popup"
	"github.com/angelmondragon/cartstore/pkg/config"
	"github.com/angelmondragon/cartstore/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store controllers.Pinger,
	gatherer prometheus.Gatherer,
	cartService cart.Service,
	popups *popup.Controller,
	modal *checkout.Modal,
	storefront *controllers.Storefront,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Profile(cfg.Profile, logg))

		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Patch("/items/{name}", controllers.CartChangeQuantity(cartService, logg))
				r.Delete("/items/{name}", controllers.CartRemoveItem(cartService, logg))
			})

			r.Route("/popups", func(r chi.Router) {
				r.Get("/", controllers.PopupsFetch(popups, logg))
				r.Post("/close", controllers.PopupsClose(popups, logg))
				r.Post("/click", controllers.PopupsClick(popups, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/open", controllers.CheckoutOpen(modal, logg))
				r.Post("/close", controllers.CheckoutClose(modal, logg))
			})
		})

		if storefront != nil {
			r.Get("/", storefront.Page)
			r.Get("/cart/fragment", storefront.CartFragment)
			r.Post("/products/{slug}/add", storefront.AddProduct)
			r.Post("/cart/items/{name}/increment", storefront.IncrementItem)
			r.Post("/cart/items/{name}/decrement", storefront.DecrementItem)
			r.Post("/cart/items/{name}/remove", storefront.RemoveItem)
			r.Post("/cart/clear", storefront.ClearCart)
			r.Post("/popups/close", storefront.ClosePopups)
			r.Post("/checkout/open", storefront.OpenCheckout)
			r.Post("/checkout/close", storefront.CloseCheckout)
		}
	})

	return r
}
