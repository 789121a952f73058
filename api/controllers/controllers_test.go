package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/cartstore/api/middleware"
	"github.com/angelmondragon/cartstore/internal/cart"
	"github.com/angelmondragon/cartstore/internal/catalog"
	"github.com/angelmondragon/cartstore/internal/checkout"
	"github.com/angelmondragon/cartstore/internal/popup"
	"github.com/angelmondragon/cartstore/pkg/config"
	pkgerrors "github.com/angelmondragon/cartstore/pkg/errors"
	"github.com/angelmondragon/cartstore/pkg/logger"
	"github.com/angelmondragon/cartstore/pkg/storage/memory"
)

const testProfile = "5d9b1f5e-8f43-4b8e-9a53-0f7c2f0f6a11"

type stack struct {
	store      *memory.Store
	cart       cart.Service
	popups     *popup.Controller
	modal      *checkout.Modal
	storefront *Storefront
}

func newStack(t *testing.T) stack {
	t.Helper()
	store := memory.New()
	logg := logger.Nop()
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	popups, err := popup.NewController(store, logg, nil)
	if err != nil {
		t.Fatalf("popup controller: %v", err)
	}
	for _, p := range cat.Products() {
		popups.Register(p.Name)
	}
	svc, err := cart.NewService(cart.NewRepository(store, logg, nil), popups, logg, nil)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	modal, err := checkout.NewModal(store)
	if err != nil {
		t.Fatalf("modal: %v", err)
	}
	sf, err := NewStorefront(cat, svc, popups, modal, logg)
	if err != nil {
		t.Fatalf("storefront: %v", err)
	}
	return stack{store: store, cart: svc, popups: popups, modal: modal, storefront: sf}
}

func withProfile(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithProfileID(req.Context(), testProfile))
}

func withItemName(req *http.Request, name string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", name)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeView(t *testing.T, resp *httptest.ResponseRecorder) cart.View {
	t.Helper()
	var envelope struct {
		Data cart.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCartAddItemCreatesLine(t *testing.T) {
	s := newStack(t)
	handler := CartAddItem(s.cart, nil)

	body := `{"name":"Desk Lamp","price":19.99,"quantity":"2"}`
	req := withProfile(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	view := decodeView(t, resp)
	if view.Total != "$39.98" || len(view.Rows) != 1 {
		t.Fatalf("unexpected view %+v", view)
	}
	visible, _ := s.popups.Visible(context.Background(), testProfile)
	if len(visible) != 1 || visible[0] != "popup-desk-lamp" {
		t.Fatalf("expected desk lamp popup, got %v", visible)
	}
}

func TestCartAddItemRequiresQuantity(t *testing.T) {
	s := newStack(t)
	for _, body := range []string{
		`{"name":"Desk Lamp","price":"19.99"}`,
		`{"name":"Desk Lamp","price":"19.99","quantity":""}`,
	} {
		req := withProfile(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)))
		resp := httptest.NewRecorder()
		CartAddItem(s.cart, nil).ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", body, resp.Code)
		}
		if !strings.Contains(resp.Body.String(), cart.InvalidQuantityMessage) {
			t.Fatalf("%s: expected quantity message, got %s", body, resp.Body.String())
		}
	}
	if _, ok, _ := s.store.Get(context.Background(), testProfile, cart.StorageKey); ok {
		t.Fatal("expected cart to stay untouched")
	}
}

func TestCartAddItemRejectsBadQuantity(t *testing.T) {
	s := newStack(t)
	req := withProfile(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"name":"Desk Lamp","price":19.99,"quantity":"abc"}`)))
	resp := httptest.NewRecorder()
	CartAddItem(s.cart, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), cart.InvalidQuantityMessage) {
		t.Fatalf("expected quantity message, got %s", resp.Body.String())
	}
}

func TestCartChangeQuantityAndRemove(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	if _, err := s.cart.AddItem(ctx, testProfile, cart.AddItemInput{Name: "Desk Lamp", Price: "19.99", Quantity: "2"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := withItemName(withProfile(httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/Desk%20Lamp", strings.NewReader(`{"delta":1}`))), "Desk Lamp")
	resp := httptest.NewRecorder()
	CartChangeQuantity(s.cart, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if view := decodeView(t, resp); view.Total != "$59.97" {
		t.Fatalf("expected $59.97, got %s", view.Total)
	}

	req = withItemName(withProfile(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/Desk%20Lamp", nil)), "Desk Lamp")
	resp = httptest.NewRecorder()
	CartRemoveItem(s.cart, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if view := decodeView(t, resp); !view.Empty || view.Total != "$0.00" {
		t.Fatalf("expected empty cart, got %+v", view)
	}
}

func TestCartChangeQuantityRejectsZeroDelta(t *testing.T) {
	s := newStack(t)
	req := withItemName(withProfile(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"delta":0}`))), "Desk Lamp")
	resp := httptest.NewRecorder()
	CartChangeQuantity(s.cart, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartRemoveUnknownItem(t *testing.T) {
	s := newStack(t)
	req := withItemName(withProfile(httptest.NewRequest(http.MethodDelete, "/", nil)), "Ghost")
	resp := httptest.NewRecorder()
	CartRemoveItem(s.cart, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartFetchMissingProfile(t *testing.T) {
	s := newStack(t)
	resp := httptest.NewRecorder()
	CartFetch(s.cart, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartClearEmptiesCart(t *testing.T) {
	s := newStack(t)
	if _, err := s.cart.AddItem(context.Background(), testProfile, cart.AddItemInput{Name: "Desk Lamp", Price: "19.99", Quantity: "1"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	resp := httptest.NewRecorder()
	CartClear(s.cart, nil).ServeHTTP(resp, withProfile(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if view := decodeView(t, resp); view.Message != cart.EmptyMessage {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestPopupsClickOnBackdropCloses(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	if err := s.popups.Show(ctx, testProfile, "Desk Lamp"); err != nil {
		t.Fatalf("show: %v", err)
	}

	req := withProfile(httptest.NewRequest(http.MethodPost, "/api/v1/popups/click", strings.NewReader(`{"classes":["popup-content"]}`)))
	resp := httptest.NewRecorder()
	PopupsClick(s.popups, nil).ServeHTTP(resp, req)
	if !strings.Contains(resp.Body.String(), "popup-desk-lamp") {
		t.Fatalf("expected popup to stay open, got %s", resp.Body.String())
	}

	req = withProfile(httptest.NewRequest(http.MethodPost, "/api/v1/popups/click", strings.NewReader(`{"classes":["popup"]}`)))
	resp = httptest.NewRecorder()
	PopupsClick(s.popups, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || strings.Contains(resp.Body.String(), "popup-desk-lamp") {
		t.Fatalf("expected popups closed, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestPopupsFetchAndClose(t *testing.T) {
	s := newStack(t)
	if err := s.popups.Show(context.Background(), testProfile, "Desk Lamp"); err != nil {
		t.Fatalf("show: %v", err)
	}
	resp := httptest.NewRecorder()
	PopupsFetch(s.popups, nil).ServeHTTP(resp, withProfile(httptest.NewRequest(http.MethodGet, "/api/v1/popups", nil)))
	if !strings.Contains(resp.Body.String(), "popup-desk-lamp") {
		t.Fatalf("expected visible popup, got %s", resp.Body.String())
	}
	resp = httptest.NewRecorder()
	PopupsClose(s.popups, nil).ServeHTTP(resp, withProfile(httptest.NewRequest(http.MethodPost, "/api/v1/popups/close", nil)))
	if visible, _ := s.popups.Visible(context.Background(), testProfile); len(visible) != 0 {
		t.Fatalf("expected no visible popups, got %v", visible)
	}
}

func TestCheckoutOpenClose(t *testing.T) {
	s := newStack(t)
	resp := httptest.NewRecorder()
	CheckoutOpen(s.modal, nil).ServeHTTP(resp, withProfile(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/open", nil)))
	if open, _ := s.modal.IsOpen(context.Background(), testProfile); !open || resp.Code != http.StatusOK {
		t.Fatalf("expected modal open, status %d", resp.Code)
	}
	resp = httptest.NewRecorder()
	CheckoutClose(s.modal, nil).ServeHTTP(resp, withProfile(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/close", nil)))
	if open, _ := s.modal.IsOpen(context.Background(), testProfile); open {
		t.Fatal("expected modal closed")
	}
}

type failingPinger struct{ err error }

func (f failingPinger) Ping(context.Context) error { return f.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}, Storage: config.StorageConfig{Backend: "redis"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, failingPinger{}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, failingPinger{err: errors.New("dial tcp")}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), string(pkgerrors.CodeDependency)) {
		t.Fatalf("expected dependency code, got %s", resp.Body.String())
	}
}
