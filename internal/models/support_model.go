package models

import "time"

// Support query statuses. Replies are written by the admin console.
const (
	SupportStatusPending  = "pending"
	SupportStatusReplied  = "replied"
	SupportStatusResolved = "resolved"

	SupportSourceHelpTab = "help_tab"
)

// SupportQuery is a help request submitted from the Help tab.
type SupportQuery struct {
	ID         string     `json:"id" firestore:"-"`
	Name       string     `json:"name" firestore:"name"`
	Email      string     `json:"email" firestore:"email"`
	Mobile     string     `json:"mobile" firestore:"mobile"`
	Comment    string     `json:"comment" firestore:"comment"`
	Status     string     `json:"status" firestore:"status"`
	AdminReply string     `json:"adminReply,omitempty" firestore:"adminReply,omitempty"`
	RepliedAt  *time.Time `json:"repliedAt,omitempty" firestore:"repliedAt,omitempty"`
	UserID     string     `json:"userId,omitempty" firestore:"userId,omitempty"`
	Source     string     `json:"source" firestore:"source"`
	CreatedAt  time.Time  `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
