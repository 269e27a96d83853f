package models

import "time"

// Product is the catalog snapshot stored inside wishlists and carts.
type Product struct {
	ID            string  `json:"id" firestore:"id"`
	Name          string  `json:"name" firestore:"name"`
	Image         string  `json:"image,omitempty" firestore:"image,omitempty"`
	Price         float64 `json:"price" firestore:"price"`
	OriginalPrice float64 `json:"originalPrice,omitempty" firestore:"originalPrice,omitempty"`
	Category      string  `json:"category,omitempty" firestore:"category,omitempty"`
	Brand         string  `json:"brand,omitempty" firestore:"brand,omitempty"`
	InStock       bool    `json:"inStock" firestore:"inStock"`
}

// Wishlist is the single wishlist document kept per user.
// Items keep insertion order.
type Wishlist struct {
	UserID    string    `json:"userId" firestore:"-"`
	Items     []Product `json:"items" firestore:"items"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

// CartItem is a product line inside a cart.
type CartItem struct {
	Product  Product `json:"product" firestore:"product"`
	Quantity int     `json:"quantity" firestore:"quantity"`
}

// Cart is the per-user cart document owned by the cart subsystem.
type Cart struct {
	UserID    string     `json:"userId" firestore:"-"`
	Items     []CartItem `json:"items" firestore:"items"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}
