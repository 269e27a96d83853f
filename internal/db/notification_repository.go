package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"storefront-account-go/internal/models"
)

const notificationsCollection = "notifications"

type firestoreNotificationRepository struct {
	client *firestore.Client
}

// NewFirestoreNotificationRepository creates a new notification repository.
func NewFirestoreNotificationRepository(client *firestore.Client) NotificationRepository {
	return &firestoreNotificationRepository{client: client}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *models.Notification) (string, error) {
	docRef := r.client.Collection(notificationsCollection).NewDoc()
	notification.ID = docRef.ID
	if _, err := docRef.Create(ctx, notification); err != nil {
		return "", fmt.Errorf("failed to create notification for user '%s': %w", notification.UserID, err)
	}
	return docRef.ID, nil
}
