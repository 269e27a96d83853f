package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront-account-go/internal/models"
)

func sampleOrders() []*models.Order {
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	return []*models.Order{
		{ID: "o1", Status: models.OrderStatusPending, Total: 500, CreatedAt: base.Add(48 * time.Hour),
			Items: []models.OrderItem{{Name: "Kurta", Price: 250, Quantity: 2}}},
		{ID: "o2", Status: models.OrderStatusConfirmed, Total: 1200, CreatedAt: base},
		{ID: "o3", Status: models.OrderStatusDelivered, Total: 80, CreatedAt: base.Add(24 * time.Hour),
			Items: []models.OrderItem{{Name: "Pen", Price: 20, Quantity: 3}, {Name: "Book", Price: 20, Quantity: 1}}},
	}
}

func ids(orders []*models.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestCanCancel(t *testing.T) {
	for _, status := range models.OrderStatuses {
		o := &models.Order{Status: status}
		assert.Equal(t, status == models.OrderStatusPending, CanCancel(o), status)
	}
}

func TestFilterOrders(t *testing.T) {
	orders := sampleOrders()
	assert.Equal(t, []string{"o1", "o2", "o3"}, ids(FilterOrders(orders, OrderFilterAll)))
	assert.Equal(t, []string{"o2"}, ids(FilterOrders(orders, models.OrderStatusConfirmed)))
	assert.Empty(t, FilterOrders(orders, models.OrderStatusRefunded))
}

func TestSortOrders(t *testing.T) {
	orders := sampleOrders()
	assert.Equal(t, []string{"o1", "o3", "o2"}, ids(SortOrders(orders, SortNewest)))
	assert.Equal(t, []string{"o2", "o3", "o1"}, ids(SortOrders(orders, SortOldest)))
	assert.Equal(t, []string{"o2", "o1", "o3"}, ids(SortOrders(orders, SortPriceHigh)))
	assert.Equal(t, []string{"o3", "o1", "o2"}, ids(SortOrders(orders, SortPriceLow)))
	assert.Equal(t, []string{"o1", "o3", "o2"}, ids(SortOrders(orders, "bogus")))
	// input untouched
	assert.Equal(t, []string{"o1", "o2", "o3"}, ids(orders))
}

func TestToOrderCards(t *testing.T) {
	cards := ToOrderCards(sampleOrders(), OrderFilterAll, SortNewest)
	assert.Len(t, cards, 3)
	assert.True(t, cards[0].CanCancel)
	assert.Equal(t, 2, cards[0].ItemCount)
	assert.Equal(t, "/orders/o1", cards[0].DetailsPath)
	assert.Equal(t, "/track-order/o1", cards[0].TrackPath)
	assert.False(t, cards[1].CanCancel)
	assert.Equal(t, 4, cards[1].ItemCount)
}

func TestStatusCounts(t *testing.T) {
	counts := StatusCounts(sampleOrders())
	assert.Len(t, counts, len(models.OrderStatuses))
	assert.Equal(t, 1, counts[models.OrderStatusPending])
	assert.Equal(t, 0, counts[models.OrderStatusRefunded])
}
