package repository

import (
	"context"
	"errors"

	"github.com/Renanlucass/loja-virtual/internal/domain"
)

// CartRepository is the durable write-through store for session carts.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

var ErrCartNotFound = errors.New("cart not found")
