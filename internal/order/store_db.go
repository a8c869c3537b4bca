package order

import (
	"context"
	"database/sql"
	"time"

	"farmergiant/internal/cart"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Create(ctx context.Context, o Order) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_name, customer_email, customer_phone,
			address, city, state, note,
			payment_method, subtotal_cents, shipping_cents, total_cents,
			status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, o.ID, o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		o.Delivery.Address, o.Delivery.City, o.Delivery.State, o.Delivery.Note,
		o.PaymentMethod, o.SubtotalCents, o.ShippingCents, o.TotalCents,
		o.Status, o.CreatedAt)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (order_id, product_id, name, price_cents, quantity, image)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range o.Items {
		if _, err := stmt.ExecContext(ctx, o.ID, it.ID, it.Name, it.PriceCents, it.Quantity, it.Image); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var o Order
	err := s.db.QueryRowContext(ctx, `
		SELECT id, customer_name, customer_email, customer_phone,
		       address, city, state, note,
		       payment_method, subtotal_cents, shipping_cents, total_cents,
		       status, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
		&o.Delivery.Address, &o.Delivery.City, &o.Delivery.State, &o.Delivery.Note,
		&o.PaymentMethod, &o.SubtotalCents, &o.ShippingCents, &o.TotalCents,
		&o.Status, &o.CreatedAt)

	if err == sql.ErrNoRows {
		return Order{}, false, nil
	}
	if err != nil {
		return Order{}, false, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, name, price_cents, quantity, image
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id ASC
	`, id)
	if err != nil {
		return Order{}, false, err
	}
	defer rows.Close()

	items := make([]cart.LineItem, 0, 8)
	for rows.Next() {
		var it cart.LineItem
		if err := rows.Scan(&it.ID, &it.Name, &it.PriceCents, &it.Quantity, &it.Image); err != nil {
			return Order{}, false, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return Order{}, false, err
	}
	o.Items = items

	return o, true, nil
}
