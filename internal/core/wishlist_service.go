package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront-account-go/internal/db"
	"storefront-account-go/internal/models"
)

// wishlistService implements the WishlistService interface.
type wishlistService struct {
	wishlistRepo db.WishlistRepository
	cartRepo     db.CartRepository
	logger       *zap.Logger
}

// NewWishlistService creates a new WishlistService instance.
func NewWishlistService(wr db.WishlistRepository, cr db.CartRepository, logger *zap.Logger) WishlistService {
	return &wishlistService{wishlistRepo: wr, cartRepo: cr, logger: logger}
}

// Load returns the wishlist items in insertion order, or an empty list when
// the user has no wishlist document.
func (s *wishlistService) Load(ctx context.Context, userID string) ([]models.Product, error) {
	wl, err := s.wishlistRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return []models.Product{}, nil
		}
		return nil, fmt.Errorf("failed to load wishlist for user '%s': %w", userID, err)
	}
	if wl.Items == nil {
		return []models.Product{}, nil
	}
	return wl.Items, nil
}

func (s *wishlistService) RemoveItem(ctx context.Context, userID, productID string, confirmed bool) ([]models.Product, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	items, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	remaining := make([]models.Product, 0, len(items))
	for _, p := range items {
		if p.ID != productID {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == len(items) {
		return nil, fmt.Errorf("%w: '%s'", ErrWishlistItemNotFound, productID)
	}

	if err := s.wishlistRepo.SaveItems(ctx, userID, remaining); err != nil {
		return nil, fmt.Errorf("failed to update wishlist for user '%s': %w", userID, err)
	}
	return remaining, nil
}

// AddToCart hands the wishlist product to the cart subsystem.
func (s *wishlistService) AddToCart(ctx context.Context, userID, productID string) error {
	items, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}
	for _, p := range items {
		if p.ID == productID {
			if err := s.cartRepo.AddProduct(ctx, userID, p); err != nil {
				return fmt.Errorf("failed to add '%s' to cart: %w", productID, err)
			}
			s.logger.Debug("Wishlist item added to cart", zap.String("userID", userID), zap.String("productID", productID))
			return nil
		}
	}
	return fmt.Errorf("%w: '%s'", ErrWishlistItemNotFound, productID)
}
