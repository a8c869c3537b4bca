package order

import (
	"context"
	"time"

	"farmergiant/internal/cart"
)

type Customer struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

type Delivery struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Note    string `json:"note,omitempty"`
}

type Order struct {
	ID            string          `json:"id"`
	Customer      Customer        `json:"customer"`
	Delivery      Delivery        `json:"delivery"`
	PaymentMethod string          `json:"payment_method"`
	Items         []cart.LineItem `json:"items"`
	SubtotalCents int64           `json:"subtotal_cents"`
	ShippingCents int64           `json:"shipping_cents"`
	TotalCents    int64           `json:"total_cents"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

const StatusPending = "PENDING"

type Store interface {
	Ping(ctx context.Context) error
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, bool, error)
}
