package models

import "time"

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// OrderStatuses lists every known order status in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID string  `json:"productId,omitempty" firestore:"productId,omitempty"`
	Name      string  `json:"name" firestore:"name"`
	Image     string  `json:"image,omitempty" firestore:"image,omitempty"`
	Price     float64 `json:"price" firestore:"price"`
	Quantity  int     `json:"quantity" firestore:"quantity"`
}

// Order represents a placed order in the orders collection.
type Order struct {
	ID              string      `json:"id" firestore:"-"` // Document ID
	UserID          string      `json:"userId" firestore:"userId"`
	Items           []OrderItem `json:"items" firestore:"items"`
	Total           float64     `json:"total" firestore:"total"`
	Status          string      `json:"status" firestore:"status"`
	PaymentMethod   string      `json:"paymentMethod,omitempty" firestore:"paymentMethod,omitempty"`
	ShippingAddress Address     `json:"shippingAddress" firestore:"shippingAddress"`
	CreatedAt       time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
	CancelledAt     *time.Time  `json:"cancelledAt,omitempty" firestore:"cancelledAt,omitempty"`
}

// IsPending reports whether the order is still awaiting confirmation.
func (o *Order) IsPending() bool {
	return o != nil && o.Status == OrderStatusPending
}
