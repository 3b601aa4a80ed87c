// Package storage holds poster images. Posters are small objects, so a
// single PutObject per upload is enough; no multipart handling needed.
package storage

import (
	"context"
	"io"

	"github.com/spf13/viper"
)

type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error

	// URL returns the public URL a browser loads the object from.
	URL(key string) string
}

// New picks the backend from storage.type: Cloudflare R2 for "s3",
// plain disk under storage.local_dir otherwise.
func New() (Store, error) {
	if viper.GetString("storage.type") == "s3" {
		return NewR2()
	}

	return NewLocal(viper.GetString("storage.local_dir"))
}
