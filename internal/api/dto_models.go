package api

import (
	"storefront-account-go/internal/account"
	"storefront-account-go/internal/views"
)

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error      string            `json:"error"`
	Details    string            `json:"details,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	RedirectTo string            `json:"redirectTo,omitempty"`
	// Account is the page state after a failed mutation, including its error banner.
	Account *account.Snapshot `json:"account,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MutationResponse carries the result of an account mutation and the page
// state the client should render next.
type MutationResponse struct {
	Data    interface{}      `json:"data,omitempty"`
	Account account.Snapshot `json:"account"`
}

// OrderListResponse is returned by GET /orders.
type OrderListResponse struct {
	Orders       []views.OrderCard `json:"orders"`
	StatusCounts map[string]int    `json:"statusCounts"`
}

// PhotoResponse is returned after a profile photo upload.
type PhotoResponse struct {
	PhotoURL string `json:"photoURL"`
}
