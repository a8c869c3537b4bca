package order

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"farmergiant/internal/cart"
	"farmergiant/pkg/kit"
)

type Server struct {
	Store Store
	// Slot, when set, lets a successful checkout wipe the session's
	// persisted cart server-side.
	Slot cart.Slot
	Log  *zap.Logger

	validate *validator.Validate
}

// CheckoutRequest is the order submission payload: contact and delivery
// fields plus the client's snapshot of cart lines and computed totals.
type CheckoutRequest struct {
	Customer      Customer        `json:"customer"`
	Delivery      Delivery        `json:"delivery"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=card transfer cash_on_delivery"`
	Items         []cart.LineItem `json:"items" validate:"required,min=1"`
	SubtotalCents int64           `json:"subtotal_cents"`
	ShippingCents int64           `json:"shipping_cents" validate:"gte=0"`
	TotalCents    int64           `json:"total_cents"`
}

// Routes is the public checkout surface.
func (s *Server) Routes() http.Handler {
	if s.validate == nil {
		s.validate = validator.New(validator.WithRequiredStructEnabled())
	}

	r := chi.NewRouter()
	r.Post("/", s.create)
	return r
}

// AdminRoutes exposes order lookup, mounted behind admin auth.
func (s *Server) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/{id}", s.get)
	return r
}

var (
	errBadLine      = errors.New("bad line item")
	errDuplicateID  = errors.New("duplicate product id")
	errTotals       = errors.New("totals mismatch")
	errNoItems      = errors.New("items required")
)

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed", fieldErrors(err))
		return
	}

	if err := checkLines(req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	o := Order{
		ID:            "o_" + uuid.NewString(),
		Customer:      req.Customer,
		Delivery:      req.Delivery,
		PaymentMethod: req.PaymentMethod,
		Items:         req.Items,
		SubtotalCents: req.SubtotalCents,
		ShippingCents: req.ShippingCents,
		TotalCents:    req.TotalCents,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.Store.Create(r.Context(), o); err != nil {
		if isTimeoutErr(err) {
			kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
			return
		}
		if s.Log != nil {
			s.Log.Error("store create order failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.clearCart(r)

	kit.WriteJSON(w, http.StatusCreated, o)
}

// checkLines validates the cart snapshot and the client-computed totals.
// Prices were copied at add time, so the server only checks internal
// consistency, not live catalog prices.
func checkLines(req CheckoutRequest) error {
	if len(req.Items) == 0 {
		return errNoItems
	}

	seen := make(map[string]struct{}, len(req.Items))
	var subtotal int64

	for _, it := range req.Items {
		id := strings.TrimSpace(it.ID)
		if id == "" || it.Quantity <= 0 || it.PriceCents < 0 {
			return errBadLine
		}
		if _, dup := seen[id]; dup {
			return errDuplicateID
		}
		seen[id] = struct{}{}
		subtotal += it.PriceCents * int64(it.Quantity)
	}

	if req.SubtotalCents != subtotal {
		return errTotals
	}
	if req.TotalCents != subtotal+req.ShippingCents {
		return errTotals
	}
	return nil
}

// clearCart wipes the session's persisted cart after a successful checkout.
// Best effort: a failure here only means a stale cart on next load.
func (s *Server) clearCart(r *http.Request) {
	if s.Slot == nil {
		return
	}
	sid := strings.TrimSpace(r.Header.Get(kit.SessionHeader))
	if sid == "" {
		return
	}
	if err := s.Slot.Delete(r.Context(), sid); err != nil && s.Log != nil {
		s.Log.Warn("cart slot clear failed", zap.String("session", sid), zap.Error(err))
	}
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("store get order failed", zap.Error(err), zap.String("order_id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	kit.WriteJSON(w, http.StatusOK, o)
}

func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Namespace()] = fe.Tag()
	}
	return out
}

func isTimeoutErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
