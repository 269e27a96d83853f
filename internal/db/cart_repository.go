package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"storefront-account-go/internal/models"
)

const cartsCollection = "carts"

type firestoreCartRepository struct {
	client *firestore.Client
}

// NewFirestoreCartRepository creates the cart adapter used by "move to cart".
func NewFirestoreCartRepository(client *firestore.Client) CartRepository {
	return &firestoreCartRepository{client: client}
}

// AddProduct adds one unit of product to the user's cart, incrementing the
// quantity when the product is already present.
func (r *firestoreCartRepository) AddProduct(ctx context.Context, userID string, product models.Product) error {
	ref := r.client.Collection(cartsCollection).Doc(userID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var cart models.Cart
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			if err := snap.DataTo(&cart); err != nil {
				return fmt.Errorf("decode cart: %w", err)
			}
		case isNotFound(err):
		default:
			return err
		}

		found := false
		for i := range cart.Items {
			if cart.Items[i].Product.ID == product.ID {
				cart.Items[i].Quantity++
				found = true
				break
			}
		}
		if !found {
			cart.Items = append(cart.Items, models.CartItem{Product: product, Quantity: 1})
		}
		return tx.Set(ref, map[string]interface{}{
			"items":     cart.Items,
			"updatedAt": firestore.ServerTimestamp,
		}, firestore.MergeAll)
	})
	if err != nil {
		return fmt.Errorf("failed to add product '%s' to cart of '%s': %w", product.ID, userID, err)
	}
	return nil
}
