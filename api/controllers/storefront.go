package controllers

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/cartstore/api/middleware"
	"github.com/angelmondragon/cartstore/api/responses"
	"github.com/angelmondragon/cartstore/internal/cart"
	"github.com/angelmondragon/cartstore/internal/catalog"
	"github.com/angelmondragon/cartstore/internal/checkout"
	"github.com/angelmondragon/cartstore/internal/popup"
	pkgerrors "github.com/angelmondragon/cartstore/pkg/errors"
	"github.com/angelmondragon/cartstore/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Storefront serves the server-rendered shop page and its form posts.
type Storefront struct {
	catalog  *catalog.Catalog
	cart     cart.Service
	popups   popupService
	checkout checkoutModal
	logg     *logger.Logger
	tmpl     *template.Template
}

type productCard struct {
	catalog.Product
	PopupID      string
	PopupVisible bool
}

type pageData struct {
	Products     []productCard
	Cart         cart.View
	CheckoutID   string
	CheckoutOpen bool
	Notice       string
}

// NewStorefront parses the page templates and binds the storefront dependencies.
func NewStorefront(cat *catalog.Catalog, cartSvc cart.Service, popups popupService, modal checkoutModal, logg *logger.Logger) (*Storefront, error) {
	if cat == nil || cartSvc == nil || popups == nil || modal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "storefront dependencies required")
	}
	tmpl, err := template.New("storefront").Funcs(template.FuncMap{
		"pathEscape": url.PathEscape,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse storefront templates")
	}
	return &Storefront{
		catalog:  cat,
		cart:     cartSvc,
		popups:   popups,
		checkout: modal,
		logg:     logg,
		tmpl:     tmpl,
	}, nil
}

// Page renders the full storefront.
func (s *Storefront) Page(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "")
}

// CartFragment renders only the cart section.
func (s *Storefront) CartFragment(w http.ResponseWriter, r *http.Request) {
	profileID := middleware.ProfileIDFromContext(r.Context())
	view, err := s.cart.Render(r.Context(), profileID)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	s.writeTemplate(r.Context(), w, http.StatusOK, "cart", view)
}

// AddProduct adds the product named by the slug with the submitted quantity.
func (s *Storefront) AddProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := s.catalog.Lookup(chi.URLParam(r, "slug"))
	if !ok {
		responses.WriteError(r.Context(), s.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
		return
	}
	if err := r.ParseForm(); err != nil {
		responses.WriteError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form"))
		return
	}
	quantity := r.PostForm.Get("quantity")
	if quantity == "" {
		quantity = "1"
	}
	_, err := s.cart.AddItem(r.Context(), middleware.ProfileIDFromContext(r.Context()), cart.AddItemInput{
		Name:     product.Name,
		Price:    product.Price.String(),
		Quantity: quantity,
	})
	s.finish(w, r, err)
}

// IncrementItem raises the named item's quantity by one.
func (s *Storefront) IncrementItem(w http.ResponseWriter, r *http.Request) {
	s.changeQuantity(w, r, 1)
}

// DecrementItem lowers the named item's quantity by one, removing it at zero.
func (s *Storefront) DecrementItem(w http.ResponseWriter, r *http.Request) {
	s.changeQuantity(w, r, -1)
}

// RemoveItem deletes the named item.
func (s *Storefront) RemoveItem(w http.ResponseWriter, r *http.Request) {
	name, err := itemNameParam(r)
	if err == nil {
		_, err = s.cart.RemoveItem(r.Context(), middleware.ProfileIDFromContext(r.Context()), name)
	}
	s.finish(w, r, err)
}

// ClearCart empties the cart.
func (s *Storefront) ClearCart(w http.ResponseWriter, r *http.Request) {
	_, err := s.cart.Clear(r.Context(), middleware.ProfileIDFromContext(r.Context()))
	s.finish(w, r, err)
}

// ClosePopups hides every popup.
func (s *Storefront) ClosePopups(w http.ResponseWriter, r *http.Request) {
	s.finish(w, r, s.popups.CloseAll(r.Context(), middleware.ProfileIDFromContext(r.Context())))
}

// OpenCheckout shows the checkout modal.
func (s *Storefront) OpenCheckout(w http.ResponseWriter, r *http.Request) {
	s.finish(w, r, s.checkout.Open(r.Context(), middleware.ProfileIDFromContext(r.Context())))
}

// CloseCheckout hides the checkout modal.
func (s *Storefront) CloseCheckout(w http.ResponseWriter, r *http.Request) {
	s.finish(w, r, s.checkout.Close(r.Context(), middleware.ProfileIDFromContext(r.Context())))
}

func (s *Storefront) changeQuantity(w http.ResponseWriter, r *http.Request, delta int) {
	name, err := itemNameParam(r)
	if err == nil {
		_, err = s.cart.ChangeQuantity(r.Context(), middleware.ProfileIDFromContext(r.Context()), name, delta)
	}
	s.finish(w, r, err)
}

// finish redirects back to the page, or re-renders it with the error's
// message when the shopper can correct the input.
func (s *Storefront) finish(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	typed := pkgerrors.As(err)
	if typed != nil && (typed.Code() == pkgerrors.CodeValidation || typed.Code() == pkgerrors.CodeNotFound) {
		status := pkgerrors.MetadataFor(typed.Code()).HTTPStatus
		s.renderPage(w, r, status, typed.Message())
		return
	}
	responses.WriteError(r.Context(), s.logg, w, err)
}

func (s *Storefront) renderPage(w http.ResponseWriter, r *http.Request, status int, notice string) {
	ctx := r.Context()
	data, err := s.pageData(ctx, middleware.ProfileIDFromContext(ctx))
	if err != nil {
		responses.WriteError(ctx, s.logg, w, err)
		return
	}
	data.Notice = notice
	s.writeTemplate(ctx, w, status, "page", data)
}

func (s *Storefront) pageData(ctx context.Context, profileID string) (pageData, error) {
	view, err := s.cart.Render(ctx, profileID)
	if err != nil {
		return pageData{}, err
	}
	visible, err := s.popups.Visible(ctx, profileID)
	if err != nil {
		return pageData{}, err
	}
	open, err := s.checkout.IsOpen(ctx, profileID)
	if err != nil {
		return pageData{}, err
	}

	shown := make(map[string]struct{}, len(visible))
	for _, id := range visible {
		shown[id] = struct{}{}
	}
	products := s.catalog.Products()
	cards := make([]productCard, 0, len(products))
	for _, p := range products {
		id := popup.PanelID(p.Name)
		_, isShown := shown[id]
		cards = append(cards, productCard{Product: p, PopupID: id, PopupVisible: isShown})
	}

	return pageData{
		Products:     cards,
		Cart:         view,
		CheckoutID:   checkout.PanelID,
		CheckoutOpen: open,
	}, nil
}

func (s *Storefront) writeTemplate(ctx context.Context, w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		responses.WriteError(ctx, s.logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render "+strings.TrimSpace(name)))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
