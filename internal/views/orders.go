package views

import (
	"sort"

	"storefront-account-go/internal/models"
)

// Order sort keys.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceHigh = "price-high"
	SortPriceLow  = "price-low"
)

// OrderFilterAll disables status filtering.
const OrderFilterAll = "all"

// CanCancel reports whether the cancel action is offered. Only pending orders qualify.
func CanCancel(o *models.Order) bool {
	return o.IsPending()
}

// FilterOrders keeps orders with the given status. "all" or empty keeps everything.
func FilterOrders(orders []*models.Order, status string) []*models.Order {
	out := make([]*models.Order, 0, len(orders))
	for _, o := range orders {
		if status == "" || status == OrderFilterAll || o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// SortOrders returns a sorted copy. Unknown keys fall back to newest first.
func SortOrders(orders []*models.Order, key string) []*models.Order {
	out := make([]*models.Order, len(orders))
	copy(out, orders)

	var less func(a, b *models.Order) bool
	switch key {
	case SortOldest:
		less = func(a, b *models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortPriceHigh:
		less = func(a, b *models.Order) bool { return a.Total > b.Total }
	case SortPriceLow:
		less = func(a, b *models.Order) bool { return a.Total < b.Total }
	default:
		less = func(a, b *models.Order) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ItemCount is the total quantity across order lines.
func ItemCount(o *models.Order) int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

func OrderDetailsPath(orderID string) string { return "/orders/" + orderID }
func TrackOrderPath(orderID string) string   { return "/track-order/" + orderID }

// StatusCounts counts orders per status. Every known status is present.
func StatusCounts(orders []*models.Order) map[string]int {
	counts := make(map[string]int, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		counts[s] = 0
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

// OrderCard is an order with its derived display fields.
type OrderCard struct {
	Order       *models.Order `json:"order"`
	CanCancel   bool          `json:"canCancel"`
	ItemCount   int           `json:"itemCount"`
	DetailsPath string        `json:"detailsPath"`
	TrackPath   string        `json:"trackPath"`
}

// ToOrderCards filters then sorts orders and derives their display fields.
func ToOrderCards(orders []*models.Order, status, sortKey string) []OrderCard {
	sorted := SortOrders(FilterOrders(orders, status), sortKey)
	cards := make([]OrderCard, 0, len(sorted))
	for _, o := range sorted {
		cards = append(cards, OrderCard{
			Order:       o,
			CanCancel:   CanCancel(o),
			ItemCount:   ItemCount(o),
			DetailsPath: OrderDetailsPath(o.ID),
			TrackPath:   TrackOrderPath(o.ID),
		})
	}
	return cards
}
