package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"storefront-account-go/internal/models"
)

const supportQueriesCollection = "supportQueries"

type firestoreSupportRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreSupportRepository creates a new support query repository.
func NewFirestoreSupportRepository(client *firestore.Client, logger *zap.Logger) SupportRepository {
	return &firestoreSupportRepository{client: client, logger: logger}
}

// Create adds a support query with an auto-generated ID. createdAt is set by the server.
func (r *firestoreSupportRepository) Create(ctx context.Context, query *models.SupportQuery) (string, error) {
	docRef := r.client.Collection(supportQueriesCollection).NewDoc()
	query.ID = docRef.ID
	if _, err := docRef.Create(ctx, query); err != nil {
		return "", fmt.Errorf("failed to create support query: %w", err)
	}
	return docRef.ID, nil
}

// ListByMobile returns the queries submitted with the given mobile number, newest first.
func (r *firestoreSupportRepository) ListByMobile(ctx context.Context, mobile string) ([]*models.SupportQuery, error) {
	iter := r.client.Collection(supportQueriesCollection).
		Where("mobile", "==", mobile).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	queries := make([]*models.SupportQuery, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate support queries: %w", err)
		}
		var q models.SupportQuery
		if err := doc.DataTo(&q); err != nil {
			r.logger.Warn("Skipping undecodable support query", zap.String("queryID", doc.Ref.ID), zap.Error(err))
			continue
		}
		q.ID = doc.Ref.ID
		queries = append(queries, &q)
	}
	return queries, nil
}
