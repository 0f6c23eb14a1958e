// Package cart persists shopping cart snapshots per browsing session.
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"cake-shop/internal/domain"
)

// Store holds one serialized cart per session. Get on an unknown session
// returns an empty cart.
type Store interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	Set(ctx context.Context, sessionID string, c domain.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

func encode(c domain.Cart) ([]byte, error) {
	if c.Lines == nil {
		c.Lines = []domain.CartLine{}
	}
	return json.Marshal(c)
}

func decode(b []byte) (domain.Cart, error) {
	var c domain.Cart
	if len(b) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}
