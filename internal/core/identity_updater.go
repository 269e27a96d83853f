package core

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// FirebaseIdentityUpdater updates Firebase Auth user records.
type FirebaseIdentityUpdater struct {
	client *auth.Client
}

func NewFirebaseIdentityUpdater(client *auth.Client) *FirebaseIdentityUpdater {
	return &FirebaseIdentityUpdater{client: client}
}

func (u *FirebaseIdentityUpdater) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	params := (&auth.UserToUpdate{}).DisplayName(displayName)
	if _, err := u.client.UpdateUser(ctx, uid, params); err != nil {
		return fmt.Errorf("failed to update auth display name for %s: %w", uid, err)
	}
	return nil
}

func (u *FirebaseIdentityUpdater) UpdatePhotoURL(ctx context.Context, uid, url string) error {
	params := (&auth.UserToUpdate{}).PhotoURL(url)
	if _, err := u.client.UpdateUser(ctx, uid, params); err != nil {
		return fmt.Errorf("failed to update auth photo URL for %s: %w", uid, err)
	}
	return nil
}
