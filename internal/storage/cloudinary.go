package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores images as Cloudinary assets. The storage key, minus its
// extension, is used as the public ID.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudURL string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	cld.Config.URL.Secure = true
	// stored photo URLs must not carry the SDK's analytics query
	cld.Config.URL.Analytics = false
	return &Cloudinary{cld: cld}, nil
}

func publicID(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

func (c *Cloudinary) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	overwrite := true
	_, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:  publicID(in.Key),
		Overwrite: &overwrite,
	})
	if err != nil {
		return PutResult{}, fmt.Errorf("cloudinary upload '%s': %w", in.Key, err)
	}
	return PutResult{Key: in.Key}, nil
}

func (c *Cloudinary) URL(_ context.Context, key string) (string, error) {
	asset, err := c.cld.Image(publicID(key))
	if err != nil {
		return "", fmt.Errorf("cloudinary asset '%s': %w", key, err)
	}
	return asset.String()
}

func (c *Cloudinary) Delete(ctx context.Context, key string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID(key)})
	if err != nil {
		return fmt.Errorf("cloudinary destroy '%s': %w", key, err)
	}
	return nil
}
