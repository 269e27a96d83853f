package views

import (
	"math"

	"storefront-account-go/internal/models"
)

// TotalSavings sums originalPrice - price over items that are actually discounted.
func TotalSavings(items []models.Product) float64 {
	var total float64
	for _, p := range items {
		if p.OriginalPrice > p.Price {
			total += p.OriginalPrice - p.Price
		}
	}
	return total
}

// TotalValue sums the current prices.
func TotalValue(items []models.Product) float64 {
	var total float64
	for _, p := range items {
		total += p.Price
	}
	return total
}

// DiscountPercent is the rounded discount of p, or 0 when it is not discounted.
func DiscountPercent(p models.Product) int {
	if p.OriginalPrice <= p.Price || p.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
}

func QuickViewPath(productID string) string { return "/product/" + productID }

// WishlistItem is a product with its derived display fields.
type WishlistItem struct {
	Product         models.Product `json:"product"`
	DiscountPercent int            `json:"discountPercent"`
	QuickViewPath   string         `json:"quickViewPath"`
}

// WishlistSummary is the derived wishlist tab.
type WishlistSummary struct {
	Items        []WishlistItem `json:"items"`
	Count        int            `json:"count"`
	TotalValue   float64        `json:"totalValue"`
	TotalSavings float64        `json:"totalSavings"`
}

func SummarizeWishlist(items []models.Product) WishlistSummary {
	out := make([]WishlistItem, 0, len(items))
	for _, p := range items {
		out = append(out, WishlistItem{
			Product:         p,
			DiscountPercent: DiscountPercent(p),
			QuickViewPath:   QuickViewPath(p.ID),
		})
	}
	return WishlistSummary{
		Items:        out,
		Count:        len(items),
		TotalValue:   TotalValue(items),
		TotalSavings: TotalSavings(items),
	}
}
