package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each cart in three co-located Redis keys (see
// keys.go). Counter mutations go through HINCRBY so concurrent
// requests for the same session never lose updates. Cross-key
// consistency is not transactional; reads tolerate partial writes
// instead (see Get).
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Add(ctx context.Context, sessionID string, it Item) error {
	if err := s.rdb.HIncrBy(ctx, qtyKey(sessionID), it.ProductID, it.Quantity).Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(Detail{ProductID: it.ProductID, Name: it.Name, Price: it.Price})
	if err != nil {
		return err
	}
	// First write wins: repeated adds keep the original name/price,
	// checkout reconciliation corrects staleness later.
	if err := s.rdb.HSetNX(ctx, detailsKey(sessionID), it.ProductID, raw).Err(); err != nil {
		return err
	}

	return s.refreshTTL(ctx, sessionID)
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]Item, error) {
	quantities, err := s.rdb.HGetAll(ctx, qtyKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	details, err := s.rdb.HGetAll(ctx, detailsKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(quantities))
	for productID, rawQty := range quantities {
		rawDetail, ok := details[productID]
		if !ok {
			// Counter without a detail: a torn write, drop it.
			continue
		}

		var d Detail
		if err := json.Unmarshal([]byte(rawDetail), &d); err != nil {
			continue
		}
		qty, err := strconv.ParseInt(rawQty, 10, 64)
		if err != nil {
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

func (s *RedisStore) Remove(ctx context.Context, sessionID, productID string) error {
	if err := s.removeEntry(ctx, sessionID, productID); err != nil {
		return err
	}
	return s.refreshTTL(ctx, sessionID)
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, qtyKey(sessionID), detailsKey(sessionID), promoKey(sessionID)).Err()
}

func (s *RedisStore) IncrementQuantity(ctx context.Context, sessionID, productID string, step int64) (bool, error) {
	if err := s.rdb.HIncrBy(ctx, qtyKey(sessionID), productID, step).Err(); err != nil {
		return false, err
	}
	if err := s.refreshTTL(ctx, sessionID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) DecrementQuantity(ctx context.Context, sessionID, productID string, step int64) (bool, error) {
	exists, err := s.rdb.HExists(ctx, qtyKey(sessionID), productID).Result()
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	qty, err := s.rdb.HIncrBy(ctx, qtyKey(sessionID), productID, -step).Result()
	if err != nil {
		return false, err
	}
	if qty < 1 {
		if err := s.removeEntry(ctx, sessionID, productID); err != nil {
			return false, err
		}
	}

	if err := s.refreshTTL(ctx, sessionID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) SetQuantity(ctx context.Context, sessionID, productID string, quantity int64) (bool, error) {
	exists, err := s.rdb.HExists(ctx, qtyKey(sessionID), productID).Result()
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if err := s.rdb.HSet(ctx, qtyKey(sessionID), productID, quantity).Err(); err != nil {
		return false, err
	}
	if err := s.refreshTTL(ctx, sessionID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) SetPromoCode(ctx context.Context, sessionID, code string) error {
	if err := s.rdb.Set(ctx, promoKey(sessionID), code, s.ttl).Err(); err != nil {
		return err
	}
	return s.refreshTTL(ctx, sessionID)
}

func (s *RedisStore) PromoCode(ctx context.Context, sessionID string) (string, bool, error) {
	code, err := s.rdb.Get(ctx, promoKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return code, true, nil
}

func (s *RedisStore) UpdateItem(ctx context.Context, sessionID, productID, name string, price float64, quantity int64) error {
	raw, err := json.Marshal(Detail{ProductID: productID, Name: name, Price: price})
	if err != nil {
		return err
	}

	if err := s.rdb.HSet(ctx, detailsKey(sessionID), productID, raw).Err(); err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, qtyKey(sessionID), productID, quantity).Err(); err != nil {
		return err
	}
	return s.refreshTTL(ctx, sessionID)
}

// removeEntry drops the product from both hashes and cleans up the
// promo code when the cart goes empty. All deletes are idempotent.
func (s *RedisStore) removeEntry(ctx context.Context, sessionID, productID string) error {
	if err := s.rdb.HDel(ctx, qtyKey(sessionID), productID).Err(); err != nil {
		return err
	}
	if err := s.rdb.HDel(ctx, detailsKey(sessionID), productID).Err(); err != nil {
		return err
	}

	n, err := s.rdb.HLen(ctx, qtyKey(sessionID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return s.rdb.Del(ctx, promoKey(sessionID)).Err()
	}
	return nil
}

func (s *RedisStore) refreshTTL(ctx context.Context, sessionID string) error {
	p := s.rdb.Pipeline()
	p.Expire(ctx, qtyKey(sessionID), s.ttl)
	p.Expire(ctx, detailsKey(sessionID), s.ttl)
	p.Expire(ctx, promoKey(sessionID), s.ttl)
	_, err := p.Exec(ctx)
	return err
}
