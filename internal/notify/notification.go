package notify

import "time"

type Type string

const (
	TypePurchase Type = "purchase"
	TypeCart     Type = "cart"
	TypeInfo     Type = "info"
)

type Notification struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Message     string    `json:"message"`
	ProductID   string    `json:"product_id,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
	Image       string    `json:"image,omitempty"`
	Customer    string    `json:"customer,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
