package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-account-go/internal/models"
	"storefront-account-go/internal/views"
)

// ListOrders handles GET /orders?status=&sort=
func (h *AccountHandler) ListOrders(c *gin.Context) {
	identity := h.identity(c)
	if identity == nil {
		return
	}
	orders, err := h.services.Orders.List(c.Request.Context(), identity.UID)
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
		return
	}
	q := viewQuery(c)
	c.JSON(http.StatusOK, OrderListResponse{
		Orders:       views.ToOrderCards(orders, q.OrderStatus, q.OrderSort),
		StatusCounts: views.StatusCounts(orders),
	})
}

// CancelOrder handles POST /orders/:orderId/cancel. The body answers the
// confirmation dialog: confirm=false closes it without writing anything.
func (h *AccountHandler) CancelOrder(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Order ID is required"})
		return
	}
	var req models.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	page, ok := h.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	if err := page.RequestCancel(orderID); err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, page)
		return
	}
	if !req.Confirm {
		if err := page.DeclineCancel(); err != nil {
			mapErrorToStatus(c, err, h.loginPath, h.logger, page)
			return
		}
		h.respond(c, http.StatusOK, page, nil)
		return
	}
	if err := page.ConfirmCancel(c.Request.Context()); err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, page)
		return
	}
	h.respond(c, http.StatusOK, page, nil)
}

// Reorder handles POST /orders/:orderId/reorder
func (h *AccountHandler) Reorder(c *gin.Context) {
	page, ok := h.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	if err := page.Reorder(c.Request.Context(), c.Param("orderId")); err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, page)
		return
	}
	h.respond(c, http.StatusOK, page, nil)
}
