package models

// UpdateProfileRequest represents the request body for saving the profile form.
// Role is intentionally absent: it cannot be changed from the account area.
type UpdateProfileRequest struct {
	DisplayName string  `json:"displayName"`
	Mobile      string  `json:"mobile,omitempty"`
	Address     Address `json:"address"`
	DateOfBirth string  `json:"dateOfBirth,omitempty"`
	Gender      string  `json:"gender,omitempty"`
}

// CancelOrderRequest is the body of POST /orders/:orderId/cancel.
// Confirm=false is the "decline" branch of the confirmation modal.
type CancelOrderRequest struct {
	Confirm bool `json:"confirm"`
}

// SupportQueryRequest represents the Help form.
type SupportQueryRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Mobile  string `json:"mobile" validate:"omitempty,min=7,max=20"`
	Comment string `json:"comment" validate:"required,max=2000"`
}
