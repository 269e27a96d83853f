package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-account-go/internal/views"
)

// GetWishlist handles GET /wishlist
func (h *AccountHandler) GetWishlist(c *gin.Context) {
	identity := h.identity(c)
	if identity == nil {
		return
	}
	items, err := h.services.Wishlist.Load(c.Request.Context(), identity.UID)
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
		return
	}
	c.JSON(http.StatusOK, views.SummarizeWishlist(items))
}

// RemoveWishlistItem handles DELETE /wishlist/items/:productId?confirm=true
func (h *AccountHandler) RemoveWishlistItem(c *gin.Context) {
	page, ok := h.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	items, err := page.RemoveWishlistItem(c.Request.Context(), c.Param("productId"), c.Query("confirm") == "true")
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, page)
		return
	}
	h.respond(c, http.StatusOK, page, views.SummarizeWishlist(items))
}

// AddToCart handles POST /wishlist/items/:productId/cart
func (h *AccountHandler) AddToCart(c *gin.Context) {
	page, ok := h.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	if err := page.AddToCart(c.Request.Context(), c.Param("productId")); err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, page)
		return
	}
	h.respond(c, http.StatusOK, page, nil)
}
