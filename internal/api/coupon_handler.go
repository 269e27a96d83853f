package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-account-go/internal/views"
)

// ListCoupons handles GET /coupons?filter=&q=
func (h *AccountHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.services.Coupons.ListActive(c.Request.Context())
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
		return
	}
	q := viewQuery(c)
	now := h.now()
	c.JSON(http.StatusOK, views.ToCouponCards(views.FilterCoupons(coupons, q.CouponFilter, q.CouponQuery, now), now))
}

// CopyCoupon handles POST /coupons/:couponId/copy
func (h *AccountHandler) CopyCoupon(c *gin.Context) {
	page, ok := h.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	res, err := page.CopyCoupon(c.Request.Context(), c.Param("couponId"))
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, page)
		return
	}
	h.respond(c, http.StatusOK, page, res)
}
