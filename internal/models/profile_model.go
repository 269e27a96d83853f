package models

import "time"

// Profile roles. Role gates admin-only UI.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address is the postal address kept on a profile.
type Address struct {
	Street  string `json:"street" firestore:"street"`
	City    string `json:"city" firestore:"city"`
	State   string `json:"state" firestore:"state"`
	Pincode string `json:"pincode" firestore:"pincode"`
	Country string `json:"country" firestore:"country"`
}

// Profile represents the account profile document stored in the users collection.
type Profile struct {
	ID          string    `json:"id" firestore:"-"` // Firebase Auth UID, also the document ID
	DisplayName string    `json:"displayName" firestore:"displayName"`
	Email       string    `json:"email" firestore:"email"`
	Mobile      string    `json:"mobile,omitempty" firestore:"mobile,omitempty"`
	Address     Address   `json:"address" firestore:"address"`
	DateOfBirth string    `json:"dateOfBirth,omitempty" firestore:"dateOfBirth,omitempty"` // yyyy-mm-dd as entered
	Gender      string    `json:"gender,omitempty" firestore:"gender,omitempty"`
	Role        string    `json:"role" firestore:"role"`
	PhotoURL    string    `json:"photoURL,omitempty" firestore:"photoURL"`
	CreatedAt   time.Time `json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known profile roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
