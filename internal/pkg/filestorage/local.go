package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalStorage handles saving files to the local filesystem.
// Files are served by the HTTP router under baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
	logger   zerolog.Logger
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath if needed.
func NewLocalStorage(basePath, baseURL string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger.With().Str("component", "local_storage").Logger(),
	}, nil
}

// Save writes r to basePath/folder/<uuid><ext>.
func (ls *LocalStorage) Save(ctx context.Context, folder, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(ls.basePath, filepath.Clean("/"+folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, r); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	url := ls.baseURL + path.Join("/", folder, name)
	ls.logger.Debug().Str("path", dstPath).Str("url", url).Msg("File saved")
	return url, nil
}

// Delete removes the file behind url. Missing files are ignored.
func (ls *LocalStorage) Delete(_ context.Context, url string) error {
	physical, ok := ls.pathFor(url)
	if !ok {
		return fmt.Errorf("url %q is not served by this storage", url)
	}
	if err := os.Remove(physical); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// pathFor maps a public URL back to its location on disk.
func (ls *LocalStorage) pathFor(url string) (string, bool) {
	rel, found := strings.CutPrefix(url, ls.baseURL+"/")
	if !found || rel == "" {
		return "", false
	}
	clean := filepath.Clean("/" + rel)
	return filepath.Join(ls.basePath, clean), true
}
