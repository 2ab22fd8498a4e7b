package cart

import "context"

// Detail is the JSON value stored per product in the details hash.
// Quantity is never stored here; it lives only in the quantity counter.
type Detail struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// Item is the read view of a cart entry, joined from the quantity
// counter and the cached detail.
type Item struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

// CheckoutItem is an Item annotated by checkout reconciliation.
type CheckoutItem struct {
	Item
	Valid bool   `json:"valid"`
	Error string `json:"error"`
}

type Store interface {
	Ping(ctx context.Context) error

	// Add increments the product's quantity counter, creating it if
	// absent. The cached name/price is written only on the first add.
	Add(ctx context.Context, sessionID string, it Item) error

	// Get joins quantities with details. A counter with no matching
	// detail is excluded, which heals a torn multi-key write.
	Get(ctx context.Context, sessionID string) ([]Item, error)

	// Remove deletes the product from quantities and details. Removing
	// the last product also deletes the promo code. No-op if absent.
	Remove(ctx context.Context, sessionID, productID string) error

	// Clear deletes the whole cart.
	Clear(ctx context.Context, sessionID string) error

	// IncrementQuantity adds step to the counter, creating it if absent.
	IncrementQuantity(ctx context.Context, sessionID, productID string, step int64) (bool, error)

	// DecrementQuantity subtracts step. A resulting quantity below 1
	// removes the product entirely. Reports false if the product is not
	// in the cart.
	DecrementQuantity(ctx context.Context, sessionID, productID string, step int64) (bool, error)

	// SetQuantity overwrites the counter with an absolute value.
	// Reports false if the product is not in the cart.
	SetQuantity(ctx context.Context, sessionID, productID string, quantity int64) (bool, error)

	SetPromoCode(ctx context.Context, sessionID, code string) error
	PromoCode(ctx context.Context, sessionID string) (string, bool, error)

	// UpdateItem overwrites both the cached detail and the counter.
	// Used by checkout reconciliation to repair stale product data.
	UpdateItem(ctx context.Context, sessionID, productID, name string, price float64, quantity int64) error
}
