package cart_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"MiniCart/internal/cart"
)

type fakeCatalog struct {
	products map[string]cart.CatalogProduct
	calls    int
	err      error
}

func (f *fakeCatalog) FindActive(ctx context.Context, ids []string) (map[string]cart.CatalogProduct, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	out := map[string]cart.CatalogProduct{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func newReconciler(store cart.Store, catalog cart.CatalogLookup) *cart.Reconciler {
	return cart.NewReconciler(store, catalog, zap.NewNop(), nil)
}

func TestReconcile_EmptyCartSkipsCatalog(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemStore(cartTTL)
	fc := &fakeCatalog{}

	items, err := newReconciler(store, fc).Reconcile(ctx, "s1")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %#v", items)
	}
	if fc.calls != 0 {
		t.Fatalf("catalog called %d times for an empty cart", fc.calls)
	}
}

func TestReconcile_DropsInactiveProducts(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemStore(cartTTL)
	fc := &fakeCatalog{products: map[string]cart.CatalogProduct{
		"a": {ID: "a", Name: "Keyboard", Price: 49.90},
	}}

	if err := store.Add(ctx, "s1", cart.Item{ProductID: "a", Name: "Keyboard", Price: 49.90, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Add(ctx, "s1", cart.Item{ProductID: "b", Name: "Discontinued", Price: 5.00, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := newReconciler(store, fc).Reconcile(ctx, "s1")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != "a" {
		t.Fatalf("expected only product a, got %#v", items)
	}
	if !items[0].Valid || items[0].Error != "" {
		t.Fatalf("survivor not marked valid: %#v", items[0])
	}

	// Side effect: b is gone from the stored cart too.
	left, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, ok := itemByID(t, left, "b"); ok {
		t.Fatalf("inactive product still stored: %#v", left)
	}
}

func TestReconcile_RepairsStaleNameAndPrice(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemStore(cartTTL)
	fc := &fakeCatalog{products: map[string]cart.CatalogProduct{
		"a": {ID: "a", Name: "Keyboard Pro", Price: 12.50},
	}}

	if err := store.Add(ctx, "s1", cart.Item{ProductID: "a", Name: "Keyboard", Price: 10.00, Quantity: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := newReconciler(store, fc).Reconcile(ctx, "s1")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %#v", items)
	}
	it := items[0]
	if it.Name != "Keyboard Pro" || it.Price != 12.50 {
		t.Fatalf("result not corrected: %#v", it)
	}
	if it.Quantity != 3 {
		t.Fatalf("repair changed quantity: %#v", it)
	}

	stored, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, ok := itemByID(t, stored, "a")
	if !ok {
		t.Fatalf("a missing after repair")
	}
	if got.Name != "Keyboard Pro" || got.Price != 12.50 || got.Quantity != 3 {
		t.Fatalf("store not repaired: %#v", got)
	}
}

func TestReconcile_UnchangedItemsPassThrough(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemStore(cartTTL)
	fc := &fakeCatalog{products: map[string]cart.CatalogProduct{
		"a": {ID: "a", Name: "Keyboard", Price: 49.90},
	}}

	if err := store.Add(ctx, "s1", cart.Item{ProductID: "a", Name: "Keyboard", Price: 49.90, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := newReconciler(store, fc).Reconcile(ctx, "s1")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %#v", items)
	}
	if !items[0].Valid || items[0].Error != "" || items[0].Quantity != 2 {
		t.Fatalf("unexpected checkout item: %#v", items[0])
	}
}

func TestReconcile_CatalogFailurePropagates(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemStore(cartTTL)
	boom := errors.New("catalog down")
	fc := &fakeCatalog{err: boom}

	if err := store.Add(ctx, "s1", cart.Item{ProductID: "a", Name: "Keyboard", Price: 49.90, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := newReconciler(store, fc).Reconcile(ctx, "s1"); !errors.Is(err, boom) {
		t.Fatalf("err=%v, want %v", err, boom)
	}
}
