// Package views holds the pure derivations behind the account tabs. Every
// function recomputes from its inputs; nothing is cached between calls.
package views

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"storefront-account-go/internal/models"
)

// ExpiryBucket is the display bucket of a coupon.
type ExpiryBucket string

const (
	BucketValid   ExpiryBucket = "valid"
	BucketSoon    ExpiryBucket = "soon"
	BucketExpired ExpiryBucket = "expired"
)

// SoonWindowDays is the inclusive number of days before expiry a coupon counts as expiring soon.
const SoonWindowDays = 7

// Coupon list filters.
const (
	CouponFilterAll     = "all"
	CouponFilterActive  = "active"
	CouponFilterExpired = "expired"
)

// DaysUntilExpiry returns whole days until expiry, rounded up. Negative once expired.
func DaysUntilExpiry(c *models.Coupon, now time.Time) int {
	d := c.ExpiryDate.Sub(now)
	return int(math.Ceil(d.Hours() / 24))
}

// Bucket classifies a coupon: expired iff expiry is before now, soon iff
// 0 <= DaysUntilExpiry <= 7, valid otherwise.
func Bucket(c *models.Coupon, now time.Time) ExpiryBucket {
	if c.ExpiryDate.Before(now) {
		return BucketExpired
	}
	days := DaysUntilExpiry(c, now)
	if days >= 0 && days <= SoonWindowDays {
		return BucketSoon
	}
	return BucketValid
}

// FormatDiscount renders the headline discount, e.g. "20% OFF", "₹100 OFF", "Buy 2 Get 1".
func FormatDiscount(c *models.Coupon) string {
	switch c.Type {
	case models.CouponTypePercentage:
		return formatAmount(c.Value) + "% OFF"
	case models.CouponTypeFixed:
		return "₹" + formatAmount(c.Value) + " OFF"
	case models.CouponTypeBuyXGetY:
		return fmt.Sprintf("Buy %d Get %d", c.BuyQuantity, c.GetQuantity)
	default:
		return "Special Offer"
	}
}

// Describe renders the coupon terms line.
func Describe(c *models.Coupon) string {
	var b strings.Builder
	switch c.Type {
	case models.CouponTypePercentage:
		b.WriteString("Get " + formatAmount(c.Value) + "% off on your order")
		if c.MaxDiscount > 0 {
			b.WriteString(" (up to ₹" + formatAmount(c.MaxDiscount) + ")")
		}
	case models.CouponTypeFixed:
		b.WriteString("Get flat ₹" + formatAmount(c.Value) + " off on your order")
	case models.CouponTypeBuyXGetY:
		fmt.Fprintf(&b, "Buy %d and get %d free", c.BuyQuantity, c.GetQuantity)
		if c.FreeProduct != "" {
			b.WriteString(" " + c.FreeProduct)
		}
	default:
		if c.Description != "" {
			return c.Description
		}
		b.WriteString("Special offer")
	}
	if c.MinPurchase > 0 {
		b.WriteString(" on orders above ₹" + formatAmount(c.MinPurchase))
	}
	return b.String()
}

// CouponCard is a coupon with its derived display fields.
type CouponCard struct {
	Coupon   *models.Coupon `json:"coupon"`
	Bucket   ExpiryBucket   `json:"bucket"`
	DaysLeft int            `json:"daysLeft"`
	Discount string         `json:"discount"`
	Terms    string         `json:"terms"`
}

// FilterCoupons keeps coupons matching filter and a case-insensitive query on
// code or description. An empty filter means all.
func FilterCoupons(coupons []*models.Coupon, filter, query string, now time.Time) []*models.Coupon {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*models.Coupon, 0, len(coupons))
	for _, c := range coupons {
		switch filter {
		case CouponFilterActive:
			if Bucket(c, now) == BucketExpired {
				continue
			}
		case CouponFilterExpired:
			if Bucket(c, now) != BucketExpired {
				continue
			}
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Code), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ToCouponCards derives the display fields for each coupon.
func ToCouponCards(coupons []*models.Coupon, now time.Time) []CouponCard {
	cards := make([]CouponCard, 0, len(coupons))
	for _, c := range coupons {
		cards = append(cards, CouponCard{
			Coupon:   c,
			Bucket:   Bucket(c, now),
			DaysLeft: DaysUntilExpiry(c, now),
			Discount: FormatDiscount(c),
			Terms:    Describe(c),
		})
	}
	return cards
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
