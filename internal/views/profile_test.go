package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-account-go/internal/models"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name, displayName, email, want string
	}{
		{"two words", "ada lovelace", "ada@example.com", "AL"},
		{"three words keeps two", "Ada King Lovelace", "", "AK"},
		{"single word", "ada", "", "A"},
		{"email fallback", "   ", "zoe@example.com", "Z"},
		{"nothing", "", "", "U"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Initials(tt.displayName, tt.email))
		})
	}
}

func TestToProfileCard(t *testing.T) {
	card := ToProfileCard(&models.Profile{DisplayName: "Ada Lovelace", Role: models.RoleAdmin, PhotoURL: "https://img/a.png"})
	assert.Equal(t, "AL", card.Initials)
	assert.True(t, card.IsAdmin)
	assert.True(t, card.HasPhoto)

	card = ToProfileCard(&models.Profile{Email: "bob@example.com", Role: models.RoleUser})
	assert.Equal(t, "B", card.Initials)
	assert.False(t, card.IsAdmin)
	assert.False(t, card.HasPhoto)

	assert.Equal(t, "U", ToProfileCard(nil).Initials)
}
