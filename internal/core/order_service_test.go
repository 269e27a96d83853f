package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-account-go/internal/models"
	"storefront-account-go/internal/testutil"
)

func pendingOrder(id, userID string) *models.Order {
	return &models.Order{ID: id, UserID: userID, Status: models.OrderStatusPending, Total: 499, CreatedAt: now()}
}

func TestOrderService_CancelOrder(t *testing.T) {
	t.Run("pending order is cancelled and a notification references it", func(t *testing.T) {
		orders := testutil.NewFakeOrderRepo(pendingOrder("X", "u1"))
		notifs := &testutil.FakeNotificationRepo{}
		pub := &recordingPublisher{}
		svc := NewOrderService(orders, notifs, pub, "order-notifications", zap.NewNop())

		require.NoError(t, svc.CancelOrder(context.Background(), "u1", "X"))
		assert.Equal(t, models.OrderStatusCancelled, orders.Status("X"))
		assert.NotNil(t, orders.Orders["X"].CancelledAt)

		all := notifs.All()
		require.Len(t, all, 1)
		assert.Equal(t, "X", all[0].OrderID)
		assert.Equal(t, "u1", all[0].UserID)
		assert.Equal(t, models.NotificationTypeOrderCancelled, all[0].Type)

		require.Len(t, pub.messages["order-notifications"], 1)
		var evt OrderCancelledEvent
		require.NoError(t, json.Unmarshal(pub.messages["order-notifications"][0], &evt))
		assert.Equal(t, "X", evt.OrderID)
		assert.Equal(t, all[0].ID, evt.NotificationID)
		assert.Len(t, evt.EventID, 36)
	})

	t.Run("non pending order is rejected without writes", func(t *testing.T) {
		o := pendingOrder("Y", "u1")
		o.Status = models.OrderStatusConfirmed
		orders := testutil.NewFakeOrderRepo(o)
		notifs := &testutil.FakeNotificationRepo{}
		svc := NewOrderService(orders, notifs, nil, "q", zap.NewNop())

		err := svc.CancelOrder(context.Background(), "u1", "Y")
		assert.ErrorIs(t, err, ErrOrderNotCancellable)
		assert.Zero(t, orders.UpdateCount())
		assert.Empty(t, notifs.All())
	})

	t.Run("order owned by someone else", func(t *testing.T) {
		orders := testutil.NewFakeOrderRepo(pendingOrder("Z", "u2"))
		svc := NewOrderService(orders, &testutil.FakeNotificationRepo{}, nil, "q", zap.NewNop())

		assert.ErrorIs(t, svc.CancelOrder(context.Background(), "u1", "Z"), ErrForbiddenAccess)
		assert.Equal(t, models.OrderStatusPending, orders.Status("Z"))
	})

	t.Run("missing order", func(t *testing.T) {
		svc := NewOrderService(testutil.NewFakeOrderRepo(), &testutil.FakeNotificationRepo{}, nil, "q", zap.NewNop())
		assert.ErrorIs(t, svc.CancelOrder(context.Background(), "u1", "nope"), ErrOrderNotFound)
	})

	t.Run("store failure leaves order pending", func(t *testing.T) {
		orders := testutil.NewFakeOrderRepo(pendingOrder("X", "u1"))
		orders.UpdateErr = errors.New("deadline exceeded")
		notifs := &testutil.FakeNotificationRepo{}
		svc := NewOrderService(orders, notifs, nil, "q", zap.NewNop())

		assert.ErrorContains(t, svc.CancelOrder(context.Background(), "u1", "X"), "deadline exceeded")
		assert.Equal(t, models.OrderStatusPending, orders.Status("X"))
		assert.Empty(t, notifs.All())
	})

	t.Run("publish failure is not fatal", func(t *testing.T) {
		orders := testutil.NewFakeOrderRepo(pendingOrder("X", "u1"))
		pub := &recordingPublisher{err: errors.New("broker down")}
		svc := NewOrderService(orders, &testutil.FakeNotificationRepo{}, pub, "q", zap.NewNop())

		assert.NoError(t, svc.CancelOrder(context.Background(), "u1", "X"))
		assert.Equal(t, models.OrderStatusCancelled, orders.Status("X"))
	})
}

func TestOrderService_List(t *testing.T) {
	older := pendingOrder("a", "u1")
	newer := pendingOrder("b", "u1")
	newer.CreatedAt = now().AddDate(0, 0, 1)
	other := pendingOrder("c", "u2")
	svc := NewOrderService(testutil.NewFakeOrderRepo(older, newer, other), &testutil.FakeNotificationRepo{}, nil, "q", zap.NewNop())

	orders, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "b", orders[0].ID)
	assert.Equal(t, "a", orders[1].ID)
}

func TestOrderService_Reorder(t *testing.T) {
	svc := NewOrderService(testutil.NewFakeOrderRepo(), &testutil.FakeNotificationRepo{}, nil, "q", zap.NewNop())
	assert.ErrorIs(t, svc.Reorder(context.Background(), "u1", "X"), ErrReorderUnsupported)
}
