package storage

import (
	"context"
	"fmt"

	"storefront-account-go/internal/config"
	"storefront-account-go/internal/db"
)

// FactoryResult carries the chosen driver name with its Storage.
type FactoryResult struct {
	Driver  string
	Storage Storage
}

// FromConfig builds the Storage selected by STORAGE_DRIVER.
func FromConfig(ctx context.Context, cfg *config.Config) (FactoryResult, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverFirebase:
		client := db.GetFirebaseStorageClient()
		if client == nil {
			return FactoryResult{}, fmt.Errorf("firebase storage client is not initialized")
		}
		s, err := NewFirebase(client, cfg.FirebaseStorageBucket)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: config.StorageDriverFirebase, Storage: s}, nil

	case config.StorageDriverS3:
		s, err := NewS3(ctx, S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: config.StorageDriverS3, Storage: s}, nil

	case config.StorageDriverCloudinary:
		s, err := NewCloudinary(cfg.CloudinaryURL)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: config.StorageDriverCloudinary, Storage: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.StorageDriver)
	}
}
