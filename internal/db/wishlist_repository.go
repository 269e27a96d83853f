package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"storefront-account-go/internal/models"
)

const wishlistsCollection = "wishlists"

type firestoreWishlistRepository struct {
	client *firestore.Client
}

// NewFirestoreWishlistRepository creates a new wishlist repository.
func NewFirestoreWishlistRepository(client *firestore.Client) WishlistRepository {
	return &firestoreWishlistRepository{client: client}
}

func (r *firestoreWishlistRepository) Get(ctx context.Context, userID string) (*models.Wishlist, error) {
	docSnap, err := r.client.Collection(wishlistsCollection).Doc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("wishlist '%s': %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get wishlist '%s': %w", userID, err)
	}
	var wishlist models.Wishlist
	if err := docSnap.DataTo(&wishlist); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist '%s': %w", userID, err)
	}
	wishlist.UserID = docSnap.Ref.ID
	return &wishlist, nil
}

// SaveItems replaces the wishlist items array.
func (r *firestoreWishlistRepository) SaveItems(ctx context.Context, userID string, items []models.Product) error {
	if items == nil {
		items = []models.Product{}
	}
	data := map[string]interface{}{
		"items":     items,
		"updatedAt": firestore.ServerTimestamp,
	}
	if _, err := r.client.Collection(wishlistsCollection).Doc(userID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to save wishlist '%s': %w", userID, err)
	}
	return nil
}
