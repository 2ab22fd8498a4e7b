package catalog

import "context"

type Product struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
}

type Store interface {
	Ping(ctx context.Context) error
	ListSortedByID(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)

	// FindActive resolves ids to active products only. Inactive and
	// unknown ids are left out of the result.
	FindActive(ctx context.Context, ids []string) (map[string]Product, error)
}

func NewStore() Store {
	return NewMemStore()
}
