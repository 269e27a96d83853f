package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-account-go/internal/models"
	"storefront-account-go/internal/session"
	"storefront-account-go/internal/storage"
	"storefront-account-go/internal/testutil"
)

const maxImage = 5 * 1024 * 1024

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, r io.Reader, in storage.PutInput) (storage.PutResult, error) {
	args := m.Called(ctx, r, in)
	return args.Get(0).(storage.PutResult), args.Error(1)
}

func (m *MockStorage) URL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var asha = &session.Identity{UID: "u1", Email: "asha@example.com", DisplayName: "Asha", PhotoURL: "https://auth/photo.png"}

func newProfileService(repo *testutil.FakeProfileRepo, store storage.Storage, ids *testutil.FakeIdentityUpdater) *profileService {
	return NewProfileService(repo, store, ids, maxImage, zap.NewNop()).(*profileService)
}

func TestProfileService_Load(t *testing.T) {
	repo := testutil.NewFakeProfileRepo()
	svc := newProfileService(repo, &MockStorage{}, testutil.NewFakeIdentityUpdater())

	t.Run("absent document yields default profile", func(t *testing.T) {
		p, err := svc.Load(context.Background(), asha)
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, p.Role)
		assert.Equal(t, "Asha", p.DisplayName)
		assert.Equal(t, "asha@example.com", p.Email)
		assert.Equal(t, "https://auth/photo.png", p.PhotoURL)
	})

	t.Run("present document passes through", func(t *testing.T) {
		repo.Profiles["u1"] = &models.Profile{ID: "u1", DisplayName: "Asha K", Role: models.RoleAdmin, Mobile: "9876543210"}
		p, err := svc.Load(context.Background(), asha)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, p.Role)
		assert.Equal(t, "9876543210", p.Mobile)
	})

	t.Run("unknown role is read as user", func(t *testing.T) {
		repo.Profiles["u1"] = &models.Profile{ID: "u1", DisplayName: "Asha K", Role: "superuser"}
		p, err := svc.Load(context.Background(), asha)
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, p.Role)
		assert.False(t, p.IsAdmin())
		assert.Equal(t, "superuser", repo.Profiles["u1"].Role)
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		repo.GetErr = errors.New("unavailable")
		defer func() { repo.GetErr = nil }()
		_, err := svc.Load(context.Background(), asha)
		assert.ErrorContains(t, err, "unavailable")
	})

	t.Run("requires identity", func(t *testing.T) {
		_, err := svc.Load(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNotSignedIn)
	})
}

func TestProfileService_Save(t *testing.T) {
	t.Run("rejects blank display name without writing", func(t *testing.T) {
		for _, name := range []string{"", "   ", "\t\n"} {
			repo := testutil.NewFakeProfileRepo()
			ids := testutil.NewFakeIdentityUpdater()
			svc := newProfileService(repo, &MockStorage{}, ids)

			_, err := svc.Save(context.Background(), asha, models.UpdateProfileRequest{DisplayName: name})
			assert.ErrorIs(t, err, ErrDisplayNameRequired)
			assert.Zero(t, repo.UpsertCount())
			assert.Empty(t, ids.DisplayNames)
		}
	})

	t.Run("first save creates document with user role", func(t *testing.T) {
		repo := testutil.NewFakeProfileRepo()
		ids := testutil.NewFakeIdentityUpdater()
		svc := newProfileService(repo, &MockStorage{}, ids)

		req := models.UpdateProfileRequest{
			DisplayName: "  Asha Kumari ",
			Mobile:      "9876543210",
			Address:     models.Address{City: "Pune", Country: "India"},
		}
		p, err := svc.Save(context.Background(), asha, req)
		require.NoError(t, err)
		assert.Equal(t, "Asha Kumari", p.DisplayName)
		assert.Equal(t, models.RoleUser, p.Role)

		stored := repo.Profiles["u1"]
		assert.Equal(t, "Asha Kumari", stored.DisplayName)
		assert.Equal(t, models.RoleUser, stored.Role)
		assert.Equal(t, "Pune", stored.Address.City)
		assert.Equal(t, "Asha Kumari", ids.DisplayNames["u1"])
	})

	t.Run("existing role is preserved", func(t *testing.T) {
		repo := testutil.NewFakeProfileRepo()
		repo.Profiles["u1"] = &models.Profile{ID: "u1", DisplayName: "Asha", Role: models.RoleAdmin, CreatedAt: now()}
		svc := newProfileService(repo, &MockStorage{}, testutil.NewFakeIdentityUpdater())

		p, err := svc.Save(context.Background(), asha, models.UpdateProfileRequest{DisplayName: "Asha"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, p.Role)
		assert.NotContains(t, repo.Upserts[0], "role")
		assert.Equal(t, models.RoleAdmin, repo.Profiles["u1"].Role)
	})

	t.Run("auth sync failure does not fail the save", func(t *testing.T) {
		repo := testutil.NewFakeProfileRepo()
		ids := testutil.NewFakeIdentityUpdater()
		ids.Err = errors.New("auth down")
		svc := newProfileService(repo, &MockStorage{}, ids)

		_, err := svc.Save(context.Background(), asha, models.UpdateProfileRequest{DisplayName: "New Name"})
		assert.NoError(t, err)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		repo := testutil.NewFakeProfileRepo()
		repo.SetErr = errors.New("permission denied")
		svc := newProfileService(repo, &MockStorage{}, testutil.NewFakeIdentityUpdater())

		_, err := svc.Save(context.Background(), asha, models.UpdateProfileRequest{DisplayName: "Asha"})
		assert.ErrorContains(t, err, "permission denied")
	})
}

func TestProfileService_UploadImage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		img     ImageUpload
		wantErr error
	}{
		{"pdf is rejected", ImageUpload{Filename: "cv.pdf", ContentType: "application/pdf", Size: 1024}, ErrInvalidImageType},
		{"empty type is rejected", ImageUpload{Filename: "x", ContentType: "", Size: 10}, ErrInvalidImageType},
		{"oversized image is rejected", ImageUpload{Filename: "big.png", ContentType: "image/png", Size: maxImage + 1}, ErrImageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockStorage{}
			repo := testutil.NewFakeProfileRepo()
			svc := newProfileService(repo, store, testutil.NewFakeIdentityUpdater())

			tt.img.Body = strings.NewReader("data")
			_, err := svc.UploadImage(context.Background(), asha, tt.img)
			assert.ErrorIs(t, err, tt.wantErr)
			store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
			store.AssertNotCalled(t, "URL", mock.Anything, mock.Anything)
			assert.Zero(t, repo.UpsertCount())
		})
	}
}

func TestProfileService_UploadImage(t *testing.T) {
	t.Run("stores, resolves and records the URL", func(t *testing.T) {
		store := &MockStorage{}
		repo := testutil.NewFakeProfileRepo()
		ids := testutil.NewFakeIdentityUpdater()
		svc := newProfileService(repo, store, ids)

		store.On("Put", mock.Anything, mock.Anything, mock.MatchedBy(func(in storage.PutInput) bool {
			return strings.HasPrefix(in.Key, "profile-images/u1/") && strings.HasSuffix(in.Key, ".png") &&
				in.ContentType == "image/png" && in.Size == maxImage
		})).Return(storage.PutResult{Key: "profile-images/u1/abc.png"}, nil)
		store.On("URL", mock.Anything, "profile-images/u1/abc.png").Return("https://cdn/abc.png", nil)

		url, err := svc.UploadImage(context.Background(), asha, ImageUpload{
			Filename: "Me.PNG", ContentType: "image/png", Size: maxImage, Body: strings.NewReader("png"),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/abc.png", url)
		assert.Equal(t, "https://cdn/abc.png", repo.Profiles["u1"].PhotoURL)
		assert.Equal(t, "https://cdn/abc.png", ids.PhotoURLs["u1"])
		store.AssertExpectations(t)
	})

	t.Run("deletes the blob when the profile write fails", func(t *testing.T) {
		store := &MockStorage{}
		repo := testutil.NewFakeProfileRepo()
		repo.SetErr = errors.New("write failed")
		svc := newProfileService(repo, store, testutil.NewFakeIdentityUpdater())

		store.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(storage.PutResult{Key: "k"}, nil)
		store.On("URL", mock.Anything, "k").Return("https://cdn/k", nil)
		store.On("Delete", mock.Anything, "k").Return(nil)

		_, err := svc.UploadImage(context.Background(), asha, ImageUpload{Filename: "a.jpg", ContentType: "image/jpeg", Size: 10, Body: strings.NewReader("j")})
		assert.ErrorContains(t, err, "write failed")
		store.AssertCalled(t, "Delete", mock.Anything, "k")
	})

	t.Run("upload failure is returned", func(t *testing.T) {
		store := &MockStorage{}
		svc := newProfileService(testutil.NewFakeProfileRepo(), store, testutil.NewFakeIdentityUpdater())
		store.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(storage.PutResult{}, errors.New("quota"))

		_, err := svc.UploadImage(context.Background(), asha, ImageUpload{Filename: "a.jpg", ContentType: "image/jpeg", Size: 10, Body: strings.NewReader("j")})
		assert.ErrorContains(t, err, "quota")
		store.AssertNotCalled(t, "URL", mock.Anything, mock.Anything)
	})
}

func TestProfileService_RemoveImage(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		repo := testutil.NewFakeProfileRepo()
		ids := testutil.NewFakeIdentityUpdater()
		svc := newProfileService(repo, &MockStorage{}, ids)

		err := svc.RemoveImage(context.Background(), asha, false)
		assert.ErrorIs(t, err, ErrConfirmationRequired)
		assert.Zero(t, repo.UpsertCount())
		assert.Empty(t, ids.PhotoURLs)
	})

	t.Run("requires a photo", func(t *testing.T) {
		repo := testutil.NewFakeProfileRepo()
		repo.Profiles["u1"] = &models.Profile{ID: "u1", DisplayName: "Asha", Role: models.RoleUser}
		svc := newProfileService(repo, &MockStorage{}, testutil.NewFakeIdentityUpdater())

		err := svc.RemoveImage(context.Background(), asha, true)
		assert.ErrorIs(t, err, ErrNoProfilePhoto)
	})

	t.Run("clears auth and profile photo", func(t *testing.T) {
		repo := testutil.NewFakeProfileRepo()
		repo.Profiles["u1"] = &models.Profile{ID: "u1", PhotoURL: "https://cdn/old.png", Role: models.RoleUser}
		ids := testutil.NewFakeIdentityUpdater()
		ids.PhotoURLs["u1"] = "https://cdn/old.png"
		svc := newProfileService(repo, &MockStorage{}, ids)

		require.NoError(t, svc.RemoveImage(context.Background(), asha, true))
		assert.Empty(t, repo.Profiles["u1"].PhotoURL)
		assert.Equal(t, "", ids.PhotoURLs["u1"])
	})
}
