package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-account-go/internal/middleware"
	"storefront-account-go/internal/models"
)

// GetSupportPrefill handles GET /support/prefill
func (h *AccountHandler) GetSupportPrefill(c *gin.Context) {
	identity := h.identity(c)
	if identity == nil {
		return
	}
	prefill, err := h.services.Support.Prefill(c.Request.Context(), identity)
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
		return
	}
	c.JSON(http.StatusOK, prefill)
}

// ListSupportQueries handles GET /support/queries
func (h *AccountHandler) ListSupportQueries(c *gin.Context) {
	identity := h.identity(c)
	if identity == nil {
		return
	}
	queries, err := h.services.Support.ListMine(c.Request.Context(), identity)
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
		return
	}
	c.JSON(http.StatusOK, queries)
}

// SubmitSupportQuery handles POST /support/queries. Anonymous visitors may
// submit as long as they give a mobile number.
func (h *AccountHandler) SubmitSupportQuery(c *gin.Context) {
	var req models.SupportQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if middleware.IdentityFrom(c) == nil {
		query, err := h.services.Support.Submit(c.Request.Context(), nil, req)
		if err != nil {
			mapErrorToStatus(c, err, h.loginPath, h.logger, nil)
			return
		}
		c.JSON(http.StatusCreated, SuccessResponse{Message: "Your query has been submitted. We'll get back to you soon!", Data: query})
		return
	}

	page, ok := h.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	query, err := page.SubmitSupport(c.Request.Context(), req)
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, page)
		return
	}
	h.respond(c, http.StatusCreated, page, query)
}
