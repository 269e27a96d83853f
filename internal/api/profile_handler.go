package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-account-go/internal/core"
)

// UploadPhoto handles POST /profile/photo with a multipart "photo" file.
func (h *AccountHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Photo file is required", Details: err.Error()})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Could not read photo file", Details: err.Error()})
		return
	}
	defer file.Close()

	page, ok := h.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	url, err := page.UploadImage(c.Request.Context(), core.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, page)
		return
	}
	h.respond(c, http.StatusOK, page, PhotoResponse{PhotoURL: url})
}

// RemovePhoto handles DELETE /profile/photo?confirm=true
func (h *AccountHandler) RemovePhoto(c *gin.Context) {
	page, ok := h.openPage(c)
	if !ok {
		return
	}
	defer page.Close()

	if err := page.RemoveImage(c.Request.Context(), c.Query("confirm") == "true"); err != nil {
		mapErrorToStatus(c, err, h.loginPath, h.logger, page)
		return
	}
	h.respond(c, http.StatusOK, page, nil)
}
