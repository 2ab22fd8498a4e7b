package cart

import (
	"fmt"
	"time"
)

// Key layout, one cart per session:
//   cart:{session_id}:qty         hash  product_id -> integer quantity
//   cart:{session_id}:details     hash  product_id -> JSON Detail
//   cart:{session_id}:promo_code  string
//
// All three keys share a sliding TTL, refreshed together on every
// mutating call.
const (
	keyQty     = "cart:%s:qty"
	keyDetails = "cart:%s:details"
	keyPromo   = "cart:%s:promo_code"
)

const DefaultTTL = 30 * time.Minute

func qtyKey(sessionID string) string     { return fmt.Sprintf(keyQty, sessionID) }
func detailsKey(sessionID string) string { return fmt.Sprintf(keyDetails, sessionID) }
func promoKey(sessionID string) string   { return fmt.Sprintf(keyPromo, sessionID) }
