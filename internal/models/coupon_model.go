package models

import "time"

// Coupon types.
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
	CouponTypeBuyXGetY   = "buy_x_get_y"
)

// Coupon represents a promotional coupon in the coupons collection.
type Coupon struct {
	ID          string    `json:"id" firestore:"-"`
	Code        string    `json:"code" firestore:"code"`
	Type        string    `json:"type" firestore:"type"`
	Value       float64   `json:"value,omitempty" firestore:"value,omitempty"`
	BuyQuantity int       `json:"buyQuantity,omitempty" firestore:"buyQuantity,omitempty"`
	GetQuantity int       `json:"getQuantity,omitempty" firestore:"getQuantity,omitempty"`
	FreeProduct string    `json:"freeProduct,omitempty" firestore:"freeProduct,omitempty"`
	MinPurchase float64   `json:"minPurchase,omitempty" firestore:"minPurchase,omitempty"`
	MaxDiscount float64   `json:"maxDiscount,omitempty" firestore:"maxDiscount,omitempty"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	ExpiryDate  time.Time `json:"expiryDate" firestore:"expiryDate"`
	IsActive    bool      `json:"isActive" firestore:"isActive"`
}
