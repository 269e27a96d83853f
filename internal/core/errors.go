package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Validation errors. These are raised before any store or storage call.
var (
	ErrDisplayNameRequired  = errors.New("display name is required")
	ErrInvalidImageType     = errors.New("file must be an image")
	ErrImageTooLarge        = errors.New("image exceeds the maximum allowed size")
	ErrMobileRequired       = errors.New("a mobile number is required to submit a query")
	ErrInvalidSupportQuery  = errors.New("invalid support query")
	ErrConfirmationRequired = errors.New("this action requires confirmation")
)

// Domain errors.
var (
	ErrNotSignedIn          = errors.New("not signed in")
	ErrNoProfilePhoto       = errors.New("no profile photo to remove")
	ErrOrderNotFound        = errors.New("order not found")
	ErrForbiddenAccess      = errors.New("user does not have permission for this order")
	ErrOrderNotCancellable  = errors.New("only pending orders can be cancelled")
	ErrWishlistItemNotFound = errors.New("item not found in wishlist")
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponExpired        = errors.New("coupon has expired")
	ErrCopyInFlight         = errors.New("coupon code was just copied")
	ErrReorderUnsupported   = errors.New("reorder is not supported")
	ErrCancelFlowState      = errors.New("cancel flow is not in a state that allows this action")
)

// ValidationError carries per-field messages keyed by the JSON field name.
// It matches ErrInvalidSupportQuery with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return ErrInvalidSupportQuery.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSupportQuery }

// CopyInFlightError is returned while a coupon copy is still cooling down.
// It matches ErrCopyInFlight with errors.Is.
type CopyInFlightError struct {
	RetryAfter time.Duration
}

func (e *CopyInFlightError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrCopyInFlight, e.RetryAfter.Round(time.Millisecond))
}

func (e *CopyInFlightError) Unwrap() error { return ErrCopyInFlight }
