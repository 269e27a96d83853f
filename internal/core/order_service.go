package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront-account-go/internal/db"
	"storefront-account-go/internal/messagequeue"
	"storefront-account-go/internal/models"
)

// OrderCancelledEvent is published to the notification queue after a cancellation.
type OrderCancelledEvent struct {
	EventID        string    `json:"eventId"`
	NotificationID string    `json:"notificationId"`
	OrderID        string    `json:"orderId"`
	UserID         string    `json:"userId"`
	Total          float64   `json:"total"`
	CancelledAt    time.Time `json:"cancelledAt"`
}

// orderService implements the OrderService interface.
type orderService struct {
	orderRepo        db.OrderRepository
	notificationRepo db.NotificationRepository
	publisher        messagequeue.Publisher
	queue            string
	logger           *zap.Logger
	now              func() time.Time
}

// NewOrderService creates a new OrderService instance. publisher may be nil.
func NewOrderService(
	or db.OrderRepository,
	nr db.NotificationRepository,
	publisher messagequeue.Publisher,
	queue string,
	logger *zap.Logger,
) OrderService {
	if publisher == nil {
		publisher = messagequeue.NopPublisher{}
	}
	return &orderService{
		orderRepo:        or,
		notificationRepo: nr,
		publisher:        publisher,
		queue:            queue,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *orderService) List(ctx context.Context, userID string) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user '%s': %w", userID, err)
	}
	return orders, nil
}

// CancelOrder moves a pending order owned by userID to cancelled and records a
// notification referencing it. Publishing the notification is best effort.
func (s *orderService) CancelOrder(ctx context.Context, userID, orderID string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrOrderNotFound, orderID)
		}
		return fmt.Errorf("failed to get order '%s': %w", orderID, err)
	}
	if order.UserID != userID {
		return ErrForbiddenAccess
	}
	if !order.IsPending() {
		return fmt.Errorf("%w: order '%s' is %s", ErrOrderNotCancellable, orderID, order.Status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel order '%s': %w", orderID, err)
	}

	notification := &models.Notification{
		UserID:  userID,
		OrderID: orderID,
		Type:    models.NotificationTypeOrderCancelled,
		Title:   "Order cancelled",
		Message: fmt.Sprintf("Your order #%s has been cancelled.", shortID(orderID)),
	}
	notificationID, err := s.notificationRepo.Create(ctx, notification)
	if err != nil {
		return fmt.Errorf("order '%s' cancelled but notification not recorded: %w", orderID, err)
	}

	body, err := json.Marshal(OrderCancelledEvent{
		EventID:        uuid.NewString(),
		NotificationID: notificationID,
		OrderID:        orderID,
		UserID:         userID,
		Total:          order.Total,
		CancelledAt:    s.now().UTC(),
	})
	if err == nil {
		err = s.publisher.Publish(ctx, s.queue, body)
	}
	if err != nil {
		s.logger.Warn("Failed to publish order cancellation", zap.String("orderID", orderID), zap.Error(err))
	}

	s.logger.Info("Order cancelled", zap.String("orderID", orderID), zap.String("userID", userID))
	return nil
}

func (s *orderService) Reorder(_ context.Context, _, _ string) error {
	return ErrReorderUnsupported
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
