package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"

	"storefront-account-go/internal/models"
)

const usersCollection = "users"

// firestoreProfileRepository implements ProfileRepository using Firestore.
type firestoreProfileRepository struct {
	client *firestore.Client
}

// NewFirestoreProfileRepository creates a new profile repository.
func NewFirestoreProfileRepository(client *firestore.Client) ProfileRepository {
	return &firestoreProfileRepository{client: client}
}

// GetByID retrieves the profile document keyed by the Firebase Auth UID.
func (r *firestoreProfileRepository) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("profile '%s': %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile '%s': %w", userID, err)
	}

	var profile models.Profile
	if err := docSnap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile '%s': %w", userID, err)
	}
	profile.ID = docSnap.Ref.ID
	return &profile, nil
}

// Upsert merges the given fields into the profile document. updatedAt is always
// stamped by the server; the document is created when missing.
func (r *firestoreProfileRepository) Upsert(ctx context.Context, userID string, fields map[string]interface{}) error {
	if userID == "" {
		return errors.New("userID cannot be empty for Upsert operation")
	}
	data := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		data[k] = v
	}
	data["updatedAt"] = firestore.ServerTimestamp

	if _, err := r.client.Collection(usersCollection).Doc(userID).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to upsert profile '%s': %w", userID, err)
	}
	return nil
}
