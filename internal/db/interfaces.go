package db

import (
	"context"
	"time"

	"storefront-account-go/internal/models"
)

// ProfileRepository defines storage operations for profile documents.
type ProfileRepository interface {
	// GetByID returns ErrNotFound when the user has never saved a profile.
	GetByID(ctx context.Context, userID string) (*models.Profile, error)
	// Upsert merges fields into the profile document, creating it if absent.
	Upsert(ctx context.Context, userID string, fields map[string]interface{}) error
}

// OrderRepository defines storage operations for orders.
type OrderRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Order, error)
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// WishlistRepository defines storage operations for the per-user wishlist document.
type WishlistRepository interface {
	Get(ctx context.Context, userID string) (*models.Wishlist, error)
	SaveItems(ctx context.Context, userID string, items []models.Product) error
}

// CartRepository is the slice of the cart subsystem used by the account area.
type CartRepository interface {
	AddProduct(ctx context.Context, userID string, product models.Product) error
}

// Subscription is a live query registration. Stop is safe to call more than once.
type Subscription interface {
	Stop()
}

// CouponRepository defines read access to coupons, including the live query.
type CouponRepository interface {
	GetByID(ctx context.Context, couponID string) (*models.Coupon, error)
	ListActive(ctx context.Context, now time.Time) ([]*models.Coupon, error)
	// SubscribeActive pushes the full active coupon list on every change until
	// the subscription is stopped or ctx is cancelled.
	SubscribeActive(ctx context.Context, now time.Time, onSnapshot func([]*models.Coupon), onError func(error)) (Subscription, error)
}

// SupportRepository defines storage operations for support queries.
type SupportRepository interface {
	Create(ctx context.Context, query *models.SupportQuery) (string, error)
	ListByMobile(ctx context.Context, mobile string) ([]*models.SupportQuery, error)
}

// NotificationRepository stores notification records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) (string, error)
}
