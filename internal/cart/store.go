package cart

import (
	"encoding/json"
	"fmt"

	"github.com/postify/postify/internal/shared"
)

// Load decodes the cart stored in the session. A session without a cart
// yields an empty cart.
func Load(sess *shared.Session) (Cart, error) {
	raw := sess.Cart()
	if len(raw) == 0 {
		return Cart{}, nil
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cart{}, fmt.Errorf("cart: decode session cart: %w", err)
	}
	return c, nil
}

// Save writes the cart back into the session. The session middleware
// persists it to Redis when the response commits.
func Save(sess *shared.Session, c Cart) error {
	if c.IsEmpty() {
		sess.SetCart(nil)
		return nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart: encode session cart: %w", err)
	}
	sess.SetCart(raw)
	return nil
}
