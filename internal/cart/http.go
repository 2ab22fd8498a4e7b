package cart

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniCart/pkg/kit"
)

type Server struct {
	Store      Store
	Reconciler *Reconciler
	Log        *zap.Logger
}

const (
	maxBodyBytes = 1 << 20

	sessionHeader = "X-Session-Id"
)

type addReq struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	Quantity  int64    `json:"quantity"`
}

type quantityActionReq struct {
	Action string `json:"action"`
}

type setQuantityReq struct {
	Quantity int64 `json:"quantity"`
}

type promoReq struct {
	PromoCode string `json:"promo_code"`
}

type cartResponse struct {
	Items     []Item  `json:"items"`
	PromoCode *string `json:"promo_code"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/cart", s.getCart)
	r.Delete("/cart", s.clearCart)
	r.Post("/cart/items", s.addItem)
	r.Delete("/cart/items/{id}", s.removeItem)
	r.Post("/cart/items/{id}/quantity", s.updateQuantity)
	r.Put("/cart/items/{id}/quantity", s.setQuantity)
	r.Post("/cart/promo", s.applyPromo)
	r.Post("/cart/checkout", s.checkout)

	return r
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.session(w, r)
	if !ok {
		return
	}

	items, err := s.Store.Get(r.Context(), sid)
	if err != nil {
		s.writeStoreError(w, r, "get cart failed", sid, err)
		return
	}

	resp := cartResponse{Items: items}
	code, found, err := s.Store.PromoCode(r.Context(), sid)
	if err != nil {
		s.writeStoreError(w, r, "get promo failed", sid, err)
		return
	}
	if found {
		resp.PromoCode = &code
	}

	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := s.Store.Clear(r.Context(), sid); err != nil {
		s.writeStoreError(w, r, "clear cart failed", sid, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.session(w, r)
	if !ok {
		return
	}

	var req addReq
	if err := kit.DecodeStrict(w, r, maxBodyBytes, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}
	if req.Name == "" || req.Price == nil || *req.Price < 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "name and non-negative price required", nil)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity must be >= 1", nil)
		return
	}

	it := Item{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     *req.Price,
		Quantity:  req.Quantity,
	}
	if err := s.Store.Add(r.Context(), sid, it); err != nil {
		s.writeStoreError(w, r, "add to cart failed", sid, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.session(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.Store.Remove(r.Context(), sid, id); err != nil {
		s.writeStoreError(w, r, "remove from cart failed", sid, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateQuantity(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req quantityActionReq
	if err := kit.DecodeStrict(w, r, maxBodyBytes, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	switch req.Action {
	case "", "inc":
		if _, err := s.Store.IncrementQuantity(r.Context(), sid, id, 1); err != nil {
			s.writeStoreError(w, r, "increment failed", sid, err)
			return
		}
	case "dec":
		found, err := s.Store.DecrementQuantity(r.Context(), sid, id, 1)
		if err != nil {
			s.writeStoreError(w, r, "decrement failed", sid, err)
			return
		}
		if !found {
			kit.WriteError(w, r, http.StatusNotFound, "not in cart", map[string]any{"product_id": id})
			return
		}
	default:
		kit.WriteError(w, r, http.StatusBadRequest, "action must be inc or dec", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req setQuantityReq
	if err := kit.DecodeStrict(w, r, maxBodyBytes, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if req.Quantity < 1 {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity must be >= 1", nil)
		return
	}

	found, err := s.Store.SetQuantity(r.Context(), sid, id, req.Quantity)
	if err != nil {
		s.writeStoreError(w, r, "set quantity failed", sid, err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not in cart", map[string]any{"product_id": id})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) applyPromo(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.session(w, r)
	if !ok {
		return
	}

	var req promoReq
	if err := kit.DecodeStrict(w, r, maxBodyBytes, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if strings.TrimSpace(req.PromoCode) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "promo_code required", nil)
		return
	}

	if err := s.Store.SetPromoCode(r.Context(), sid, req.PromoCode); err != nil {
		s.writeStoreError(w, r, "set promo failed", sid, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.session(w, r)
	if !ok {
		return
	}

	items, err := s.Reconciler.Reconcile(r.Context(), sid)
	if err != nil {
		switch {
		case errors.Is(err, ErrCatalogUnavailable):
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
		case errors.Is(err, ErrCatalogBadStatus):
			kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
		default:
			s.writeStoreError(w, r, "checkout failed", sid, err)
		}
		return
	}

	kit.WriteJSON(w, http.StatusOK, items)
}

// session extracts the externally supplied session identifier. The
// service never issues one.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid := strings.TrimSpace(r.Header.Get(sessionHeader))
	if sid == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "missing session", map[string]any{"header": sessionHeader})
		return "", false
	}
	return sid, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, msg, sessionID string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err), zap.String("session_id", sessionID))
	}
	if isTimeoutErr(err) {
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
		return
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
