package models

import "time"

// NotificationTypeOrderCancelled marks a notification emitted when a user cancels an order.
const NotificationTypeOrderCancelled = "order_cancelled"

// Notification is a record in the notifications collection.
type Notification struct {
	ID        string    `json:"id" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	OrderID   string    `json:"orderId,omitempty" firestore:"orderId,omitempty"`
	Type      string    `json:"type" firestore:"type"`
	Title     string    `json:"title" firestore:"title"`
	Message   string    `json:"message" firestore:"message"`
	Read      bool      `json:"read" firestore:"read"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
