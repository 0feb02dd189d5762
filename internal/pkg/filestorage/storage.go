package filestorage

import (
	"context"
	"io"
)

// FileStorage persists uploaded content and returns its public URL.
type FileStorage interface {
	// Save writes r under folder with a generated name ending in ext.
	Save(ctx context.Context, folder, ext string, r io.Reader) (url string, err error)

	// Delete removes the file behind a URL previously returned by Save.
	// Deleting a missing file is not an error.
	Delete(ctx context.Context, url string) error
}
