package cart_test

import (
	"context"
	"testing"
	"time"

	"MiniCart/internal/cart"
)

func TestMemStore_SlidingExpiry(t *testing.T) {
	ctx := context.Background()
	s := cart.NewMemStore(cartTTL)

	now := time.Now()
	s.SetClock(func() time.Time { return now })

	if err := s.Add(ctx, "s1", cart.Item{ProductID: "p1", Name: "Keyboard", Price: 49.90, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A mutation inside the window slides the whole cart's expiry.
	now = now.Add(20 * time.Minute)
	if _, err := s.IncrementQuantity(ctx, "s1", "p1", 1); err != nil {
		t.Fatalf("increment: %v", err)
	}

	now = now.Add(20 * time.Minute)
	items, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("cart lost within refreshed TTL: %#v", items)
	}

	now = now.Add(cartTTL + time.Second)
	items, err = s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart survived expiry: %#v", items)
	}
}

func TestMemStore_MatchesCanonicalSemantics(t *testing.T) {
	ctx := context.Background()
	s := cart.NewMemStore(cartTTL)

	if err := s.Add(ctx, "s1", cart.Item{ProductID: "p1", Name: "Keyboard", Price: 49.90, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(ctx, "s1", cart.Item{ProductID: "p1", Name: "Other", Price: 1.00, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, _ := s.Get(ctx, "s1")
	it, ok := itemByID(t, items, "p1")
	if !ok || it.Quantity != 3 || it.Name != "Keyboard" || it.Price != 49.90 {
		t.Fatalf("first-write-wins violated: %#v", items)
	}

	if found, _ := s.SetQuantity(ctx, "s1", "ghost", 5); found {
		t.Fatalf("set on absent product reported found")
	}
	if found, _ := s.DecrementQuantity(ctx, "s1", "ghost", 1); found {
		t.Fatalf("dec on absent product reported found")
	}

	if err := s.SetPromoCode(ctx, "s1", "SAVE10"); err != nil {
		t.Fatalf("promo: %v", err)
	}
	if found, _ := s.DecrementQuantity(ctx, "s1", "p1", 3); !found {
		t.Fatalf("dec reported not found")
	}

	items, _ = s.Get(ctx, "s1")
	if len(items) != 0 {
		t.Fatalf("floor removal failed: %#v", items)
	}
	if _, found, _ := s.PromoCode(ctx, "s1"); found {
		t.Fatalf("promo survived emptying the cart")
	}
}
