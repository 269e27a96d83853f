package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-account-go/internal/account"
	"storefront-account-go/internal/core"
)

// classifyError maps errors from the core services and the account page to
// HTTP status codes and an ErrorResponse.
func classifyError(err error, loginPath string) (int, ErrorResponse) {
	var validationErr *core.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorResponse{Error: core.ErrInvalidSupportQuery.Error(), Fields: validationErr.Fields}
	case errors.Is(err, core.ErrNotSignedIn):
		return http.StatusUnauthorized, ErrorResponse{Error: core.ErrNotSignedIn.Error(), RedirectTo: loginPath}
	case errors.Is(err, core.ErrDisplayNameRequired),
		errors.Is(err, core.ErrInvalidImageType),
		errors.Is(err, core.ErrMobileRequired),
		errors.Is(err, core.ErrInvalidSupportQuery):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.Is(err, account.ErrUnknownTab):
		return http.StatusBadRequest, ErrorResponse{Error: account.ErrUnknownTab.Error(), Details: err.Error()}
	case errors.Is(err, core.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, ErrorResponse{Error: core.ErrImageTooLarge.Error()}
	case errors.Is(err, core.ErrConfirmationRequired):
		return http.StatusPreconditionRequired, ErrorResponse{Error: core.ErrConfirmationRequired.Error()}
	case errors.Is(err, core.ErrOrderNotFound):
		return http.StatusNotFound, ErrorResponse{Error: core.ErrOrderNotFound.Error()}
	case errors.Is(err, core.ErrWishlistItemNotFound):
		return http.StatusNotFound, ErrorResponse{Error: core.ErrWishlistItemNotFound.Error()}
	case errors.Is(err, core.ErrCouponNotFound):
		return http.StatusNotFound, ErrorResponse{Error: core.ErrCouponNotFound.Error()}
	case errors.Is(err, core.ErrForbiddenAccess):
		return http.StatusForbidden, ErrorResponse{Error: core.ErrForbiddenAccess.Error()}
	case errors.Is(err, core.ErrNoProfilePhoto),
		errors.Is(err, core.ErrOrderNotCancellable),
		errors.Is(err, core.ErrCancelFlowState):
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.Is(err, core.ErrCouponExpired):
		return http.StatusGone, ErrorResponse{Error: core.ErrCouponExpired.Error()}
	case errors.Is(err, core.ErrCopyInFlight):
		return http.StatusTooManyRequests, ErrorResponse{Error: core.ErrCopyInFlight.Error()}
	case errors.Is(err, core.ErrReorderUnsupported):
		return http.StatusNotImplemented, ErrorResponse{Error: core.ErrReorderUnsupported.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
}

// mapErrorToStatus writes the error response. When page is not nil the
// response also carries the page state, so the client can show the banner.
func mapErrorToStatus(c *gin.Context, err error, loginPath string, logger *zap.Logger, page *account.Page) {
	status, resp := classifyError(err, loginPath)
	if status == http.StatusInternalServerError {
		logger.Error("Internal server error",
			zap.String("path", c.Request.URL.Path),
			zap.String("userID", c.GetString("userID")),
			zap.Error(err))
	}
	var inFlight *core.CopyInFlightError
	if errors.As(err, &inFlight) {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(inFlight.RetryAfter.Seconds()))))
	}
	if page != nil {
		snap := page.Snapshot(viewQuery(c))
		resp.Account = &snap
	}
	c.JSON(status, resp)
}
