package views

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"storefront-account-go/internal/models"
)

// Initials returns up to two uppercase initials from the display name, falling
// back to the first letter of the email and then "U".
func Initials(displayName, email string) string {
	var out []rune
	for _, word := range strings.Fields(displayName) {
		r, _ := utf8.DecodeRuneInString(word)
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	if len(out) > 0 {
		return string(out)
	}
	if email != "" {
		r, _ := utf8.DecodeRuneInString(email)
		return string(unicode.ToUpper(r))
	}
	return "U"
}

// ProfileCard is the profile with its derived display fields.
type ProfileCard struct {
	Profile  *models.Profile `json:"profile"`
	Initials string          `json:"initials"`
	IsAdmin  bool            `json:"isAdmin"`
	HasPhoto bool            `json:"hasPhoto"`
}

func ToProfileCard(p *models.Profile) ProfileCard {
	if p == nil {
		return ProfileCard{Initials: Initials("", "")}
	}
	return ProfileCard{
		Profile:  p,
		Initials: Initials(p.DisplayName, p.Email),
		IsAdmin:  p.IsAdmin(),
		HasPhoto: p.PhotoURL != "",
	}
}
