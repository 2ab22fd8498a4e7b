package cart

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Reconciler validates a cart against the catalog at checkout time.
// The cart caches name/price at add time for cheap reads; this is the
// single point where that cache is checked and repaired.
type Reconciler struct {
	Store   Store
	Catalog CatalogLookup
	Log     *zap.Logger

	removed  prometheus.Counter
	repaired prometheus.Counter
}

func NewReconciler(store Store, catalog CatalogLookup, log *zap.Logger, reg *prometheus.Registry) *Reconciler {
	r := &Reconciler{
		Store:   store,
		Catalog: catalog,
		Log:     log,
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_checkout_items_removed_total",
			Help: "Cart items removed at checkout because the product is inactive or gone",
		}),
		repaired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_checkout_items_repaired_total",
			Help: "Cart items whose cached name/price was corrected at checkout",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.removed, r.repaired)
	}
	return r
}

// Reconcile returns the checkout-ready cart: inactive products are
// removed from the store and dropped from the result, stale cached
// name/price is overwritten with catalog values, and every surviving
// item is marked valid.
func (r *Reconciler) Reconcile(ctx context.Context, sessionID string) ([]CheckoutItem, error) {
	items, err := r.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []CheckoutItem{}, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	active, err := r.Catalog.FindActive(ctx, ids)
	if err != nil {
		return nil, err
	}

	cleaned := make([]CheckoutItem, 0, len(items))
	for _, it := range items {
		p, ok := active[it.ProductID]
		if !ok {
			// Deleted or deactivated product: silently drop it, the
			// rest of the cart checks out.
			if err := r.Store.Remove(ctx, sessionID, it.ProductID); err != nil {
				return nil, err
			}
			r.removed.Inc()
			if r.Log != nil {
				r.Log.Info("checkout dropped inactive product",
					zap.String("session_id", sessionID),
					zap.String("product_id", it.ProductID),
				)
			}
			continue
		}

		if it.Name != p.Name || it.Price != p.Price {
			if err := r.Store.UpdateItem(ctx, sessionID, it.ProductID, p.Name, p.Price, it.Quantity); err != nil {
				return nil, err
			}
			it.Name = p.Name
			it.Price = p.Price
			r.repaired.Inc()
		}

		cleaned = append(cleaned, CheckoutItem{Item: it, Valid: true})
	}

	return cleaned, nil
}
