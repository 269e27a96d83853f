package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront-account-go/internal/cache"
	"storefront-account-go/internal/db"
	"storefront-account-go/internal/models"
)

// CopyCooldown is how long the copy control stays disabled after a copy.
const CopyCooldown = 1500 * time.Millisecond

// couponService implements the CouponService interface.
type couponService struct {
	couponRepo db.CouponRepository
	cooldown   cache.Cooldown
	logger     *zap.Logger
	now        func() time.Time
}

// NewCouponService creates a new CouponService instance.
func NewCouponService(cr db.CouponRepository, cooldown cache.Cooldown, logger *zap.Logger) CouponService {
	return &couponService{
		couponRepo: cr,
		cooldown:   cooldown,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *couponService) Watch(ctx context.Context, onSnapshot func([]*models.Coupon), onError func(error)) (db.Subscription, error) {
	sub, err := s.couponRepo.SubscribeActive(ctx, s.now(), onSnapshot, onError)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to coupons: %w", err)
	}
	return sub, nil
}

func (s *couponService) ListActive(ctx context.Context) ([]*models.Coupon, error) {
	coupons, err := s.couponRepo.ListActive(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// CopyCode returns the code of an active, unexpired coupon. A second copy of the
// same coupon by the same user within CopyCooldown is rejected with ErrCopyInFlight.
func (s *couponService) CopyCode(ctx context.Context, userID, couponID string) (*CopyResult, error) {
	coupon, err := s.couponRepo.GetByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrCouponNotFound, couponID)
		}
		return nil, fmt.Errorf("failed to get coupon '%s': %w", couponID, err)
	}
	now := s.now()
	if !coupon.IsActive {
		return nil, fmt.Errorf("%w: '%s'", ErrCouponNotFound, couponID)
	}
	if coupon.ExpiryDate.Before(now) {
		return nil, ErrCouponExpired
	}

	ok, err := s.cooldown.Acquire(ctx, copyKey(userID, couponID), CopyCooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to copy coupon code: %w", err)
	}
	if !ok {
		return nil, s.inFlight(ctx, copyKey(userID, couponID))
	}
	return &CopyResult{Code: coupon.Code, DisabledUntil: now.Add(CopyCooldown)}, nil
}

func (s *couponService) inFlight(ctx context.Context, key string) error {
	retry, err := s.cooldown.TTL(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read copy cooldown", zap.String("key", key), zap.Error(err))
	}
	if retry <= 0 {
		retry = CopyCooldown
	}
	return &CopyInFlightError{RetryAfter: retry}
}

func copyKey(userID, couponID string) string {
	return "coupon-copy:" + userID + ":" + couponID
}
