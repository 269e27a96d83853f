package core

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront-account-go/internal/db"
	"storefront-account-go/internal/models"
	"storefront-account-go/internal/session"
	"storefront-account-go/internal/storage"
)

const profileImagePrefix = "profile-images"

// profileService implements the ProfileService interface.
type profileService struct {
	profileRepo   db.ProfileRepository
	store         storage.Storage
	identities    IdentityUpdater
	maxImageBytes int64
	logger        *zap.Logger
	now           func() time.Time
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(
	pr db.ProfileRepository,
	store storage.Storage,
	identities IdentityUpdater,
	maxImageBytes int64,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		profileRepo:   pr,
		store:         store,
		identities:    identities,
		maxImageBytes: maxImageBytes,
		logger:        logger,
		now:           time.Now,
	}
}

func defaultProfile(identity *session.Identity) *models.Profile {
	return &models.Profile{
		ID:          identity.UID,
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
		PhotoURL:    identity.PhotoURL,
		Role:        models.RoleUser,
	}
}

func (s *profileService) Load(ctx context.Context, identity *session.Identity) (*models.Profile, error) {
	if identity == nil {
		return nil, ErrNotSignedIn
	}
	profile, err := s.profileRepo.GetByID(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return defaultProfile(identity), nil
		}
		return nil, fmt.Errorf("failed to load profile for user '%s': %w", identity.UID, err)
	}
	if !models.ValidRole(profile.Role) {
		s.logger.Warn("Profile has an unknown role, treating it as user", zap.String("uid", identity.UID), zap.String("role", profile.Role))
		normalized := *profile
		normalized.Role = models.RoleUser
		return &normalized, nil
	}
	return profile, nil
}

// Save upserts the editable profile fields. The role of an existing profile is
// never touched; a first save creates the document with role "user".
func (s *profileService) Save(ctx context.Context, identity *session.Identity, req models.UpdateProfileRequest) (*models.Profile, error) {
	if identity == nil {
		return nil, ErrNotSignedIn
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, ErrDisplayNameRequired
	}

	current, err := s.Load(ctx, identity)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"displayName": displayName,
		"email":       identity.Email,
		"mobile":      strings.TrimSpace(req.Mobile),
		"address":     req.Address,
		"dateOfBirth": req.DateOfBirth,
		"gender":      req.Gender,
	}
	if current.CreatedAt.IsZero() {
		fields["role"] = current.Role
		fields["createdAt"] = s.now().UTC()
		if current.PhotoURL != "" {
			fields["photoURL"] = current.PhotoURL
		}
	}
	if err := s.profileRepo.Upsert(ctx, identity.UID, fields); err != nil {
		return nil, fmt.Errorf("failed to save profile for user '%s': %w", identity.UID, err)
	}

	if displayName != identity.DisplayName {
		if err := s.identities.UpdateDisplayName(ctx, identity.UID, displayName); err != nil {
			s.logger.Warn("Profile saved but auth display name not updated", zap.String("uid", identity.UID), zap.Error(err))
		}
	}

	updated := *current
	updated.DisplayName = displayName
	updated.Email = identity.Email
	updated.Mobile = strings.TrimSpace(req.Mobile)
	updated.Address = req.Address
	updated.DateOfBirth = req.DateOfBirth
	updated.Gender = req.Gender
	updated.UpdatedAt = s.now().UTC()
	if updated.CreatedAt.IsZero() {
		updated.CreatedAt = updated.UpdatedAt
	}
	return &updated, nil
}

// ValidateImage checks the type and size of an upload without touching storage.
func (s *profileService) ValidateImage(img ImageUpload) error {
	if !strings.HasPrefix(img.ContentType, "image/") {
		return ErrInvalidImageType
	}
	if img.Size > s.maxImageBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, img.Size, s.maxImageBytes)
	}
	return nil
}

// UploadImage stores the image, resolves its URL and records it on both the
// profile document and the auth identity. It returns the new photo URL.
func (s *profileService) UploadImage(ctx context.Context, identity *session.Identity, img ImageUpload) (string, error) {
	if identity == nil {
		return "", ErrNotSignedIn
	}
	if err := s.ValidateImage(img); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s%s", profileImagePrefix, identity.UID, uuid.NewString(), strings.ToLower(path.Ext(img.Filename)))
	res, err := s.store.Put(ctx, img.Body, storage.PutInput{Key: key, ContentType: img.ContentType, Size: img.Size})
	if err != nil {
		return "", fmt.Errorf("failed to upload profile image: %w", err)
	}

	url, err := s.store.URL(ctx, res.Key)
	if err != nil {
		s.discard(ctx, res.Key)
		return "", fmt.Errorf("failed to resolve profile image URL: %w", err)
	}

	if err := s.profileRepo.Upsert(ctx, identity.UID, map[string]interface{}{"photoURL": url}); err != nil {
		s.discard(ctx, res.Key)
		return "", fmt.Errorf("failed to save profile image URL: %w", err)
	}
	if err := s.identities.UpdatePhotoURL(ctx, identity.UID, url); err != nil {
		s.logger.Warn("Profile image saved but auth photo not updated", zap.String("uid", identity.UID), zap.Error(err))
	}

	s.logger.Info("Profile image uploaded", zap.String("uid", identity.UID), zap.String("key", res.Key))
	return url, nil
}

func (s *profileService) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to delete orphaned profile image", zap.String("key", key), zap.Error(err))
	}
}

// RemoveImage clears the photo on the auth identity and the profile document.
func (s *profileService) RemoveImage(ctx context.Context, identity *session.Identity, confirmed bool) error {
	if identity == nil {
		return ErrNotSignedIn
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	profile, err := s.Load(ctx, identity)
	if err != nil {
		return err
	}
	if profile.PhotoURL == "" {
		return ErrNoProfilePhoto
	}

	if err := s.identities.UpdatePhotoURL(ctx, identity.UID, ""); err != nil {
		return fmt.Errorf("failed to remove profile image: %w", err)
	}
	if err := s.profileRepo.Upsert(ctx, identity.UID, map[string]interface{}{"photoURL": ""}); err != nil {
		return fmt.Errorf("failed to remove profile image: %w", err)
	}
	return nil
}
