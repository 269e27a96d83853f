package testutil

import (
	"time"

	"storefront-account-go/internal/models"
)

// TestProfile returns a saved profile for uid.
func TestProfile(uid string) *models.Profile {
	return &models.Profile{
		ID:          uid,
		DisplayName: "Asha Kumari",
		Email:       uid + "@example.com",
		Mobile:      "9876543210",
		Address:     models.Address{Street: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001", Country: "India"},
		Role:        models.RoleUser,
		CreatedAt:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

// TestOrder returns an order of uid in the given status.
func TestOrder(id, uid, status string, createdAt time.Time) *models.Order {
	return &models.Order{
		ID:     id,
		UserID: uid,
		Items: []models.OrderItem{
			{ProductID: "p-" + id, Name: "Cotton Kurta", Price: 250, Quantity: 2},
		},
		Total:         500,
		Status:        status,
		PaymentMethod: "cod",
		CreatedAt:     createdAt,
	}
}

// TestCoupon returns an active percentage coupon expiring at expiry.
func TestCoupon(id, code string, expiry time.Time) *models.Coupon {
	return &models.Coupon{
		ID:          id,
		Code:        code,
		Type:        models.CouponTypePercentage,
		Value:       20,
		MinPurchase: 999,
		Description: "Flat 20% on ethnic wear",
		ExpiryDate:  expiry,
		IsActive:    true,
	}
}

// TestProduct returns a wishlist product.
func TestProduct(id string, price, originalPrice float64) models.Product {
	return models.Product{
		ID:            id,
		Name:          "Product " + id,
		Price:         price,
		OriginalPrice: originalPrice,
		InStock:       true,
	}
}
