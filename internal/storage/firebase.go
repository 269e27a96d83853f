package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	fbstorage "firebase.google.com/go/v4/storage"
	"github.com/google/uuid"
)

// downloadTokenKey is the metadata key Firebase uses for download URL tokens.
const downloadTokenKey = "firebaseStorageDownloadTokens"

// Firebase stores objects in the project's Cloud Storage bucket and hands out
// Firebase token download URLs.
type Firebase struct {
	bucket *gcs.BucketHandle
	name   string
}

// NewFirebase resolves the named bucket, or the project default when name is empty.
func NewFirebase(client *fbstorage.Client, name string) (*Firebase, error) {
	var (
		bucket *gcs.BucketHandle
		err    error
	)
	if name == "" {
		bucket, err = client.DefaultBucket()
	} else {
		bucket, err = client.Bucket(name)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve storage bucket: %w", err)
	}
	return &Firebase{bucket: bucket, name: name}, nil
}

func (f *Firebase) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	obj := f.bucket.Object(in.Key)
	err := writeObject(ctx, r, func(ctx context.Context) io.WriteCloser {
		w := obj.NewWriter(ctx)
		w.ContentType = in.ContentType
		w.Metadata = map[string]string{downloadTokenKey: uuid.NewString()}
		return w
	})
	if err != nil {
		return PutResult{}, fmt.Errorf("write object '%s': %w", in.Key, err)
	}
	return PutResult{Key: in.Key}, nil
}

// writeObject copies r into the writer returned by open. A failed copy cancels
// the writer's context before closing, so no partial object is committed.
func writeObject(ctx context.Context, r io.Reader, open func(context.Context) io.WriteCloser) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := open(ctx)
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return err
	}
	return w.Close()
}

// URL builds the tokenized download URL for key.
func (f *Firebase) URL(ctx context.Context, key string) (string, error) {
	attrs, err := f.bucket.Object(key).Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("read object attrs '%s': %w", key, err)
	}
	token := attrs.Metadata[downloadTokenKey]
	if token == "" {
		return "", fmt.Errorf("object '%s' has no download token", key)
	}
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		attrs.Bucket, url.PathEscape(key), token), nil
}

func (f *Firebase) Delete(ctx context.Context, key string) error {
	err := f.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete object '%s': %w", key, err)
	}
	return nil
}
