package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"storefront-account-go/internal/models"
)

const ordersCollection = "orders"

// firestoreOrderRepository implements OrderRepository using Firestore.
type firestoreOrderRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreOrderRepository creates a new order repository.
func NewFirestoreOrderRepository(client *firestore.Client, logger *zap.Logger) OrderRepository {
	return &firestoreOrderRepository{client: client, logger: logger}
}

// ListByUser returns the user's orders, newest first.
func (r *firestoreOrderRepository) ListByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByUser operation")
	}
	query := r.client.Collection(ordersCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	orders := make([]*models.Order, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate orders for user '%s': %w", userID, err)
		}
		var order models.Order
		if err := doc.DataTo(&order); err != nil {
			r.logger.Warn("Skipping undecodable order", zap.String("orderID", doc.Ref.ID), zap.Error(err))
			continue
		}
		order.ID = doc.Ref.ID
		orders = append(orders, &order)
	}
	return orders, nil
}

// GetByID retrieves a single order.
func (r *firestoreOrderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, errors.New("orderID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(ordersCollection).Doc(orderID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("order '%s': %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order '%s': %w", orderID, err)
	}
	var order models.Order
	if err := docSnap.DataTo(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order '%s': %w", orderID, err)
	}
	order.ID = docSnap.Ref.ID
	return &order, nil
}

// UpdateStatus sets the order status and stamps the update time on the server.
// Cancellations also record cancelledAt.
func (r *firestoreOrderRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	updates := []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if status == models.OrderStatusCancelled {
		updates = append(updates, firestore.Update{Path: "cancelledAt", Value: firestore.ServerTimestamp})
	}
	if _, err := r.client.Collection(ordersCollection).Doc(orderID).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("order '%s': %w", orderID, ErrNotFound)
		}
		return fmt.Errorf("failed to update status of order '%s': %w", orderID, err)
	}
	return nil
}
