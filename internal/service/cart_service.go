// Package service holds the session-scoped cart store: the authoritative
// cart state for each storefront session, written through to durable
// storage after every mutation.
package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Renanlucass/loja-virtual/internal/cache"
	"github.com/Renanlucass/loja-virtual/internal/domain"
	"github.com/Renanlucass/loja-virtual/internal/repository"
)

type CartService struct {
	repo  repository.CartRepository
	cache cache.CartCache
	log   *logrus.Logger
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cartCache cache.CartCache, log *logrus.Logger) *CartService {
	return &CartService{
		repo:  repo,
		cache: cartCache,
		log:   log,
	}
}

// GetCart returns the session's cart. A session with nothing persisted, or
// whose persisted state cannot be decoded, gets a fresh empty cart.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	// Use singleflight so concurrent cache misses for the same session
	// hit the repository once.
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WithError(err).Warn("cart cache get failed")
		}

		cart, errGet := s.repo.GetCart(ctx, sessionID)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrCartNotFound) {
				return domain.NewCart(sessionID), nil
			}
			return nil, errGet
		}

		// The caller mutates the returned cart, so the async fill gets
		// its own snapshot.
		cp := cart.Copy()
		go func() {
			if errSet := s.cache.Set(context.Background(), sessionID, cp); errSet != nil {
				s.log.WithError(errSet).Warn("cart cache set failed")
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem merges line into the session's cart and returns the updated
// snapshot. Stock limits are not checked here; callers validate against
// them before adding.
func (s *CartService) AddItem(ctx context.Context, sessionID string, line domain.CartLine) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.AddLine(line)
	s.persist(ctx, cart)
	return cart, nil
}

// UpdateQuantity sets the quantity for productID; zero or less removes the
// line. Returns the updated snapshot.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.SetQuantity(productID, quantity)
	s.persist(ctx, cart)
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.RemoveLine(productID)
	s.persist(ctx, cart)
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteCart(ctx, sessionID); err != nil {
		s.log.WithError(err).Error("cart delete failed")
		return err
	}

	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.log.WithError(err).Warn("cart cache invalidate failed")
	}
	return nil
}

// persist writes the cart through to the repository and refreshes the
// cache. Failures are logged, never raised: the snapshot already returned
// to the caller stays authoritative for the session.
func (s *CartService) persist(ctx context.Context, cart *domain.Cart) {
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		s.log.WithError(err).Error("cart write-through failed")
	}

	if err := s.cache.Set(ctx, cart.SessionID, cart); err != nil {
		s.log.WithError(err).Warn("cart cache set failed")
	}
}
