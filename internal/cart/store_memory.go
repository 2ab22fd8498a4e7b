package cart

import (
	"context"
	"sync"
	"time"
)

// MemStore mirrors RedisStore semantics in process memory, including
// the sliding TTL (against an injectable clock). It backs handler
// tests and local runs without a Redis.
type MemStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	carts map[string]*memCart
}

type memCart struct {
	qty       map[string]int64
	details   map[string]Detail
	promo     string
	hasPromo  bool
	expiresAt time.Time
}

func NewMemStore(ttl time.Duration) *MemStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemStore{
		ttl:   ttl,
		now:   time.Now,
		carts: map[string]*memCart{},
	}
}

// SetClock replaces the expiry clock. Tests only.
func (s *MemStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Add(ctx context.Context, sessionID string, it Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.liveOrNew(sessionID)
	c.qty[it.ProductID] += it.Quantity
	if _, ok := c.details[it.ProductID]; !ok {
		c.details[it.ProductID] = Detail{ProductID: it.ProductID, Name: it.Name, Price: it.Price}
	}
	s.touch(c)
	return nil
}

func (s *MemStore) Get(ctx context.Context, sessionID string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(sessionID)
	if c == nil {
		return []Item{}, nil
	}

	items := make([]Item, 0, len(c.qty))
	for productID, qty := range c.qty {
		d, ok := c.details[productID]
		if !ok {
			continue
		}
		items = append(items, Item{
			ProductID: productID,
			Name:      d.Name,
			Price:     d.Price,
			Quantity:  qty,
		})
	}
	return items, nil
}

func (s *MemStore) Remove(ctx context.Context, sessionID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(sessionID)
	if c == nil {
		return nil
	}
	s.removeEntry(c, productID)
	s.touch(c)
	return nil
}

func (s *MemStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

func (s *MemStore) IncrementQuantity(ctx context.Context, sessionID, productID string, step int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.liveOrNew(sessionID)
	c.qty[productID] += step
	s.touch(c)
	return true, nil
}

func (s *MemStore) DecrementQuantity(ctx context.Context, sessionID, productID string, step int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(sessionID)
	if c == nil {
		return false, nil
	}
	if _, ok := c.qty[productID]; !ok {
		return false, nil
	}

	c.qty[productID] -= step
	if c.qty[productID] < 1 {
		s.removeEntry(c, productID)
	}
	s.touch(c)
	return true, nil
}

func (s *MemStore) SetQuantity(ctx context.Context, sessionID, productID string, quantity int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(sessionID)
	if c == nil {
		return false, nil
	}
	if _, ok := c.qty[productID]; !ok {
		return false, nil
	}

	c.qty[productID] = quantity
	s.touch(c)
	return true, nil
}

func (s *MemStore) SetPromoCode(ctx context.Context, sessionID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.liveOrNew(sessionID)
	c.promo = code
	c.hasPromo = true
	s.touch(c)
	return nil
}

func (s *MemStore) PromoCode(ctx context.Context, sessionID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.live(sessionID)
	if c == nil || !c.hasPromo {
		return "", false, nil
	}
	return c.promo, true, nil
}

func (s *MemStore) UpdateItem(ctx context.Context, sessionID, productID, name string, price float64, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.liveOrNew(sessionID)
	c.details[productID] = Detail{ProductID: productID, Name: name, Price: price}
	c.qty[productID] = quantity
	s.touch(c)
	return nil
}

func (s *MemStore) removeEntry(c *memCart, productID string) {
	delete(c.qty, productID)
	delete(c.details, productID)
	if len(c.qty) == 0 {
		c.promo = ""
		c.hasPromo = false
	}
}

func (s *MemStore) live(sessionID string) *memCart {
	c, ok := s.carts[sessionID]
	if !ok {
		return nil
	}
	if s.now().After(c.expiresAt) {
		delete(s.carts, sessionID)
		return nil
	}
	return c
}

func (s *MemStore) liveOrNew(sessionID string) *memCart {
	if c := s.live(sessionID); c != nil {
		return c
	}
	c := &memCart{
		qty:     map[string]int64{},
		details: map[string]Detail{},
	}
	s.carts[sessionID] = c
	return c
}

func (s *MemStore) touch(c *memCart) {
	c.expiresAt = s.now().Add(s.ttl)
}
