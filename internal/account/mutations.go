package account

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront-account-go/internal/banner"
	"storefront-account-go/internal/core"
	"storefront-account-go/internal/models"
	"storefront-account-go/internal/views"
)

// Operation names reported to the Recorder.
const (
	OpSaveProfile    = "save_profile"
	OpUploadImage    = "upload_image"
	OpRemoveImage    = "remove_image"
	OpCancelOrder    = "cancel_order"
	OpRemoveWishlist = "remove_wishlist_item"
	OpAddToCart      = "add_to_cart"
	OpCopyCoupon     = "copy_coupon"
	OpSubmitSupport  = "submit_support"
)

// SaveProfile saves the profile form and updates local state on success.
func (p *Page) SaveProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.Profile, error) {
	identity, gen, err := p.session()
	if err != nil {
		return nil, err
	}
	profile, err := p.svc.Profiles.Save(ctx, identity, req)
	p.recorder.Mutation(OpSaveProfile, err)
	if err != nil {
		p.logger.Warn("Failed to save profile", zap.String("userID", identity.UID), zap.Error(err))
		p.post(banner.KindError, "Failed to update profile: "+err.Error(), banner.LongTTL)
		return nil, err
	}
	p.current(gen, func() {
		p.profile = profile
		p.postLocked(banner.KindSuccess, "Profile updated successfully!", banner.DefaultTTL)
	})
	p.changed()
	return profile, nil
}

// UploadImage validates and uploads a new profile photo. Validation failures
// are returned without a banner so the caller can show them inline.
func (p *Page) UploadImage(ctx context.Context, img core.ImageUpload) (string, error) {
	identity, gen, err := p.session()
	if err != nil {
		return "", err
	}
	url, err := p.svc.Profiles.UploadImage(ctx, identity, img)
	p.recorder.Mutation(OpUploadImage, err)
	if err != nil {
		if errors.Is(err, core.ErrInvalidImageType) || errors.Is(err, core.ErrImageTooLarge) {
			return "", err
		}
		p.logger.Warn("Failed to upload profile image", zap.String("userID", identity.UID), zap.Error(err))
		p.post(banner.KindError, "Failed to upload image", banner.LongTTL)
		return "", err
	}
	p.current(gen, func() {
		if p.profile != nil {
			updated := *p.profile
			updated.PhotoURL = url
			p.profile = &updated
		}
		p.postLocked(banner.KindSuccess, "Profile picture updated!", banner.DefaultTTL)
	})
	p.changed()
	return url, nil
}

// RemoveImage clears the profile photo once confirmed.
func (p *Page) RemoveImage(ctx context.Context, confirmed bool) error {
	identity, gen, err := p.session()
	if err != nil {
		return err
	}
	err = p.svc.Profiles.RemoveImage(ctx, identity, confirmed)
	if errors.Is(err, core.ErrConfirmationRequired) {
		return err
	}
	p.recorder.Mutation(OpRemoveImage, err)
	if err != nil {
		p.logger.Warn("Failed to remove profile image", zap.String("userID", identity.UID), zap.Error(err))
		p.post(banner.KindError, "Failed to remove image", banner.LongTTL)
		return err
	}
	p.current(gen, func() {
		if p.profile != nil {
			updated := *p.profile
			updated.PhotoURL = ""
			p.profile = &updated
		}
		p.postLocked(banner.KindSuccess, "Profile picture removed", banner.DefaultTTL)
	})
	p.changed()
	return nil
}

// RequestCancel opens the cancellation dialog for a loaded, pending order.
func (p *Page) RequestCancel(orderID string) error {
	if _, _, err := p.session(); err != nil {
		return err
	}
	p.mu.Lock()
	var order *models.Order
	for _, o := range p.orders {
		if o.ID == orderID {
			order = o
			break
		}
	}
	loadErr := p.ordersErr
	p.mu.Unlock()
	if order == nil {
		if loadErr != nil {
			return fmt.Errorf("orders unavailable: %w", loadErr)
		}
		return core.ErrOrderNotFound
	}
	if !views.CanCancel(order) {
		return core.ErrOrderNotCancellable
	}
	if err := p.cancelFlow.Request(orderID); err != nil {
		return err
	}
	p.changed()
	return nil
}

// DeclineCancel closes the dialog without writing anything.
func (p *Page) DeclineCancel() error {
	if err := p.cancelFlow.Decline(); err != nil {
		return err
	}
	p.changed()
	return nil
}

// ConfirmCancel submits the pending cancellation. On success the dialog
// closes and the order list is reloaded; on failure it stays open with the error.
func (p *Page) ConfirmCancel(ctx context.Context) error {
	identity, gen, err := p.session()
	if err != nil {
		return err
	}
	err = p.cancelFlow.Confirm(ctx)
	p.recorder.Mutation(OpCancelOrder, err)
	if err != nil {
		p.logger.Warn("Failed to cancel order", zap.String("userID", identity.UID), zap.Error(err))
		p.changed()
		return err
	}

	orders, lerr := p.svc.Orders.List(ctx, identity.UID)
	if lerr != nil {
		p.logger.Warn("Failed to reload orders", zap.String("userID", identity.UID), zap.Error(lerr))
	}
	p.current(gen, func() {
		if lerr == nil {
			p.orders = orders
		}
		p.cancelFlow.Reset()
		p.postLocked(banner.KindSuccess, "Order cancelled successfully", banner.DefaultTTL)
	})
	p.changed()
	return nil
}

func (p *Page) cancelOrder(ctx context.Context, orderID string) error {
	identity, _, err := p.session()
	if err != nil {
		return err
	}
	return p.svc.Orders.CancelOrder(ctx, identity.UID, orderID)
}

// Reorder is not supported.
func (p *Page) Reorder(ctx context.Context, orderID string) error {
	identity, _, err := p.session()
	if err != nil {
		return err
	}
	return p.svc.Orders.Reorder(ctx, identity.UID, orderID)
}

// RemoveWishlistItem removes a product once confirmed.
func (p *Page) RemoveWishlistItem(ctx context.Context, productID string, confirmed bool) ([]models.Product, error) {
	identity, gen, err := p.session()
	if err != nil {
		return nil, err
	}
	items, err := p.svc.Wishlist.RemoveItem(ctx, identity.UID, productID, confirmed)
	if errors.Is(err, core.ErrConfirmationRequired) {
		return nil, err
	}
	p.recorder.Mutation(OpRemoveWishlist, err)
	if err != nil {
		p.logger.Warn("Failed to remove wishlist item", zap.String("userID", identity.UID), zap.Error(err))
		p.post(banner.KindError, "Failed to remove item from wishlist", banner.LongTTL)
		return nil, err
	}
	p.current(gen, func() {
		p.wishlist = items
		p.postLocked(banner.KindSuccess, "Removed from wishlist", banner.DefaultTTL)
	})
	p.changed()
	return items, nil
}

// AddToCart hands a wishlist product to the cart. Failures are returned as-is.
func (p *Page) AddToCart(ctx context.Context, productID string) error {
	identity, gen, err := p.session()
	if err != nil {
		return err
	}
	err = p.svc.Wishlist.AddToCart(ctx, identity.UID, productID)
	p.recorder.Mutation(OpAddToCart, err)
	if err != nil {
		return err
	}
	p.current(gen, func() { p.postLocked(banner.KindSuccess, "Added to cart!", banner.ShortTTL) })
	p.changed()
	return nil
}

// CopyCoupon returns the coupon code and the time until which copying is disabled.
func (p *Page) CopyCoupon(ctx context.Context, couponID string) (*core.CopyResult, error) {
	identity, gen, err := p.session()
	if err != nil {
		return nil, err
	}
	res, err := p.svc.Coupons.CopyCode(ctx, identity.UID, couponID)
	if errors.Is(err, core.ErrCopyInFlight) {
		return nil, err
	}
	p.recorder.Mutation(OpCopyCoupon, err)
	if err != nil {
		p.post(banner.KindError, "Failed to copy coupon code", banner.ShortTTL)
		return nil, err
	}
	p.current(gen, func() { p.postLocked(banner.KindSuccess, "Coupon code copied!", banner.ShortTTL) })
	p.changed()
	return res, nil
}

// SubmitSupport submits the help form as the signed-in user.
func (p *Page) SubmitSupport(ctx context.Context, req models.SupportQueryRequest) (*models.SupportQuery, error) {
	identity, gen, err := p.session()
	if err != nil {
		return nil, err
	}
	query, err := p.svc.Support.Submit(ctx, identity, req)
	p.recorder.Mutation(OpSubmitSupport, err)
	if err != nil {
		p.post(banner.KindError, err.Error(), banner.LongTTL)
		return nil, err
	}
	p.current(gen, func() {
		p.supportQueries = append([]*models.SupportQuery{query}, p.supportQueries...)
		p.postLocked(banner.KindSuccess, "Your query has been submitted. We'll get back to you soon!", banner.LongTTL)
	})
	p.changed()
	return query, nil
}
