package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storefront-account-go/internal/models"
)

const couponsCollection = "coupons"

type firestoreCouponRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreCouponRepository creates a new coupon repository.
func NewFirestoreCouponRepository(client *firestore.Client, logger *zap.Logger) CouponRepository {
	return &firestoreCouponRepository{client: client, logger: logger}
}

func (r *firestoreCouponRepository) activeQuery(now time.Time) firestore.Query {
	return r.client.Collection(couponsCollection).
		Where("isActive", "==", true).
		Where("expiryDate", ">", now).
		OrderBy("expiryDate", firestore.Asc)
}

func (r *firestoreCouponRepository) GetByID(ctx context.Context, couponID string) (*models.Coupon, error) {
	if couponID == "" {
		return nil, errors.New("couponID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(couponsCollection).Doc(couponID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("coupon '%s': %w", couponID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon '%s': %w", couponID, err)
	}
	var coupon models.Coupon
	if err := docSnap.DataTo(&coupon); err != nil {
		return nil, fmt.Errorf("failed to decode coupon '%s': %w", couponID, err)
	}
	coupon.ID = docSnap.Ref.ID
	return &coupon, nil
}

// ListActive is the one-shot form of the active coupon query.
func (r *firestoreCouponRepository) ListActive(ctx context.Context, now time.Time) ([]*models.Coupon, error) {
	iter := r.activeQuery(now).Documents(ctx)
	defer iter.Stop()

	coupons := make([]*models.Coupon, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate active coupons: %w", err)
		}
		if coupon, ok := r.decode(doc); ok {
			coupons = append(coupons, coupon)
		}
	}
	return coupons, nil
}

// SubscribeActive starts a live query over the active coupons. Every snapshot
// delivers the complete ordered list; there is no incremental diff.
func (r *firestoreCouponRepository) SubscribeActive(ctx context.Context, now time.Time, onSnapshot func([]*models.Coupon), onError func(error)) (Subscription, error) {
	if onSnapshot == nil {
		return nil, errors.New("onSnapshot callback is required")
	}
	subCtx, cancel := context.WithCancel(ctx)
	iter := r.activeQuery(now).Snapshots(subCtx)

	sub := &snapshotSubscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if subCtx.Err() != nil || status.Code(err) == codes.Canceled || errors.Is(err, iterator.Done) {
					return
				}
				r.logger.Error("Coupon subscription failed", zap.Error(err))
				if onError != nil {
					onError(err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				r.logger.Error("Failed to read coupon snapshot", zap.Error(err))
				if onError != nil {
					onError(err)
				}
				return
			}
			coupons := make([]*models.Coupon, 0, len(docs))
			for _, doc := range docs {
				if coupon, ok := r.decode(doc); ok {
					coupons = append(coupons, coupon)
				}
			}
			onSnapshot(coupons)
		}
	}()
	return sub, nil
}

func (r *firestoreCouponRepository) decode(doc *firestore.DocumentSnapshot) (*models.Coupon, bool) {
	var coupon models.Coupon
	if err := doc.DataTo(&coupon); err != nil {
		r.logger.Warn("Skipping undecodable coupon", zap.String("couponID", doc.Ref.ID), zap.Error(err))
		return nil, false
	}
	coupon.ID = doc.Ref.ID
	return &coupon, true
}

// snapshotSubscription owns the listener goroutine of a live query.
type snapshotSubscription struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the listener and waits for its goroutine to exit. It must not be
// called from inside the snapshot callback.
func (s *snapshotSubscription) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}
