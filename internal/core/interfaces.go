package core

import (
	"context"
	"io"
	"time"

	"storefront-account-go/internal/db"
	"storefront-account-go/internal/models"
	"storefront-account-go/internal/session"
)

// ProfileService loads and mutates the profile document of the signed-in user.
type ProfileService interface {
	// Load returns the stored profile, or a default one with role "user" when none exists.
	Load(ctx context.Context, identity *session.Identity) (*models.Profile, error)
	Save(ctx context.Context, identity *session.Identity, req models.UpdateProfileRequest) (*models.Profile, error)
	UploadImage(ctx context.Context, identity *session.Identity, img ImageUpload) (string, error)
	RemoveImage(ctx context.Context, identity *session.Identity, confirmed bool) error
}

// OrderService lists and cancels orders.
type OrderService interface {
	List(ctx context.Context, userID string) ([]*models.Order, error)
	CancelOrder(ctx context.Context, userID, orderID string) error
	Reorder(ctx context.Context, userID, orderID string) error
}

// WishlistService reads and edits the wishlist document.
type WishlistService interface {
	Load(ctx context.Context, userID string) ([]models.Product, error)
	RemoveItem(ctx context.Context, userID, productID string, confirmed bool) ([]models.Product, error)
	AddToCart(ctx context.Context, userID, productID string) error
}

// CouponService exposes the active coupon set.
type CouponService interface {
	// Watch pushes the full active coupon list on every change until the
	// subscription is stopped.
	Watch(ctx context.Context, onSnapshot func([]*models.Coupon), onError func(error)) (db.Subscription, error)
	ListActive(ctx context.Context) ([]*models.Coupon, error)
	CopyCode(ctx context.Context, userID, couponID string) (*CopyResult, error)
}

// SupportService handles the help tab.
type SupportService interface {
	Prefill(ctx context.Context, identity *session.Identity) (*SupportPrefill, error)
	// Submit creates a support query. identity is nil for anonymous visitors.
	Submit(ctx context.Context, identity *session.Identity, req models.SupportQueryRequest) (*models.SupportQuery, error)
	ListMine(ctx context.Context, identity *session.Identity) ([]*models.SupportQuery, error)
}

// ImageUpload is a profile image received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CopyResult is returned by a successful coupon copy. The client keeps the
// copy control disabled until DisabledUntil.
type CopyResult struct {
	Code          string    `json:"code"`
	DisabledUntil time.Time `json:"disabledUntil"`
}

// SupportPrefill holds the help form defaults for a signed-in user.
type SupportPrefill struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// IdentityUpdater mirrors profile fields onto the auth identity.
type IdentityUpdater interface {
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
	// UpdatePhotoURL sets the photo; an empty url clears it.
	UpdatePhotoURL(ctx context.Context, uid, url string) error
}
