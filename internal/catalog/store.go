package catalog

import "context"

type Store interface {
	Ping(ctx context.Context) error

	List(ctx context.Context, q Query) (Page, error)
	GetByID(ctx context.Context, id string) (Product, bool, error)
	GetBySlug(ctx context.Context, slug string) (Product, bool, error)

	// IncrementViews bumps the product's persistent view counter. Callers
	// fire it and forget it; it is not consistent with the read it follows.
	IncrementViews(ctx context.Context, id string) error

	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
