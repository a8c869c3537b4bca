package order

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"farmergiant/internal/cart"
	"farmergiant/pkg/kit"
)

func validCheckout() CheckoutRequest {
	return CheckoutRequest{
		Customer:      Customer{Name: "Ngozi Okafor", Email: "ngozi@example.com", Phone: "+2348012345678"},
		Delivery:      Delivery{Address: "12 Works Road", City: "Awka", State: "Anambra"},
		PaymentMethod: "transfer",
		Items: []cart.LineItem{
			{ID: "p_feeder01", Name: "Automatic Chick Feeder", PriceCents: 1850000, Quantity: 2},
			{ID: "p_drinker01", Name: "Bell Drinker 5L", PriceCents: 450000, Quantity: 1},
		},
		SubtotalCents: 4150000,
		ShippingCents: 150000,
		TotalCents:    4300000,
	}
}

func postCheckout(t *testing.T, ts *httptest.Server, session string, req CheckoutRequest) (*http.Response, []byte) {
	t.Helper()

	b, err := json.Marshal(req)
	require.NoError(t, err)

	hr, err := http.NewRequest(http.MethodPost, ts.URL+"/", bytes.NewReader(b))
	require.NoError(t, err)
	hr.Header.Set("Content-Type", "application/json")
	if session != "" {
		hr.Header.Set(kit.SessionHeader, session)
	}

	resp, err := ts.Client().Do(hr)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func TestCheckout_Success(t *testing.T) {
	store := NewMemStore()
	srv := &Server{Store: store, Log: zap.NewNop()}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	resp, data := postCheckout(t, ts, "", validCheckout())
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var o Order
	require.NoError(t, json.Unmarshal(data, &o))
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, int64(4300000), o.TotalCents)
	assert.Len(t, o.Items, 2)
	assert.False(t, o.CreatedAt.IsZero())

	stored, ok, err := store.Get(context.Background(), o.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ngozi@example.com", stored.Customer.Email)
}

func TestCheckout_ValidationFailures(t *testing.T) {
	srv := &Server{Store: NewMemStore(), Log: zap.NewNop()}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	cases := map[string]func(*CheckoutRequest){
		"missing name":      func(r *CheckoutRequest) { r.Customer.Name = "" },
		"bad email":         func(r *CheckoutRequest) { r.Customer.Email = "not-an-email" },
		"missing phone":     func(r *CheckoutRequest) { r.Customer.Phone = "" },
		"missing address":   func(r *CheckoutRequest) { r.Delivery.Address = "" },
		"unknown payment":   func(r *CheckoutRequest) { r.PaymentMethod = "bitcoin" },
		"no items":          func(r *CheckoutRequest) { r.Items = nil },
		"negative shipping": func(r *CheckoutRequest) { r.ShippingCents = -1; r.TotalCents = r.SubtotalCents - 1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validCheckout()
			mutate(&req)

			resp, data := postCheckout(t, ts, "", req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))
		})
	}
}

func TestCheckout_LineAndTotalChecks(t *testing.T) {
	srv := &Server{Store: NewMemStore(), Log: zap.NewNop()}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	t.Run("duplicate product id", func(t *testing.T) {
		req := validCheckout()
		req.Items = append(req.Items, req.Items[0])
		resp, data := postCheckout(t, ts, "", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(data), "duplicate product id")
	})

	t.Run("zero quantity line", func(t *testing.T) {
		req := validCheckout()
		req.Items[0].Quantity = 0
		resp, _ := postCheckout(t, ts, "", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("subtotal mismatch", func(t *testing.T) {
		req := validCheckout()
		req.SubtotalCents += 100
		req.TotalCents += 100
		resp, data := postCheckout(t, ts, "", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(data), "totals mismatch")
	})

	t.Run("total ignores shipping", func(t *testing.T) {
		req := validCheckout()
		req.TotalCents = req.SubtotalCents
		resp, _ := postCheckout(t, ts, "", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCheckout_ClearsCartSlot(t *testing.T) {
	ctx := context.Background()
	slot := cart.NewMemSlot()
	require.NoError(t, slot.Save(ctx, "s_buyer", []byte(`{"items":[{"id":"p_feeder01"}]}`)))

	srv := &Server{Store: NewMemStore(), Slot: slot, Log: zap.NewNop()}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	resp, _ := postCheckout(t, ts, "s_buyer", validCheckout())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, ok, err := slot.Load(ctx, "s_buyer")
	require.NoError(t, err)
	assert.False(t, ok, "persisted cart wiped after checkout")
}

func TestCheckout_NoSessionLeavesSlotsAlone(t *testing.T) {
	ctx := context.Background()
	slot := cart.NewMemSlot()
	require.NoError(t, slot.Save(ctx, "s_other", []byte(`{"items":[]}`)))

	srv := &Server{Store: NewMemStore(), Slot: slot, Log: zap.NewNop()}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	resp, _ := postCheckout(t, ts, "", validCheckout())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, ok, err := slot.Load(ctx, "s_other")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAdminGetOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	o := Order{ID: "o_123", Customer: Customer{Name: "A", Email: "a@b.c", Phone: "1"}, Status: StatusPending}
	require.NoError(t, store.Create(ctx, o))

	srv := &Server{Store: store, Log: zap.NewNop()}
	ts := httptest.NewServer(srv.AdminRoutes())
	t.Cleanup(ts.Close)

	resp, err := ts.Client().Get(ts.URL + "/o_123")
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got Order
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "o_123", got.ID)

	resp, err = ts.Client().Get(ts.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
