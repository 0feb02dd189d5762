package filestorage

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/hireboard/internal/pkg/apperrors"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)

func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

func newUploader(t *testing.T) (*Uploader, string) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "/uploads", zerolog.Nop())
	require.NoError(t, err)
	return NewUploader(storage, DefaultPolicies()), dir
}

func TestUpload_SniffsImage(t *testing.T) {
	uploader, dir := newUploader(t)

	stored, err := uploader.Upload(context.Background(), FieldAvatar, fileHeader(t, "avatar", "me.txt", pngBytes))
	require.NoError(t, err)

	assert.Equal(t, "image/png", stored.MIMEType)
	assert.True(t, stored.IsImage())
	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(stored.URL, ".png"))

	onDisk, err := os.ReadFile(filepath.Join(dir, "avatars", filepath.Base(stored.URL)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, onDisk)

	require.NoError(t, uploader.Remove(context.Background(), stored.URL))
	_, err = os.Stat(filepath.Join(dir, "avatars", filepath.Base(stored.URL)))
	assert.True(t, os.IsNotExist(err))
}

func TestUpload_RejectsWrongFormat(t *testing.T) {
	uploader, _ := newUploader(t)

	_, err := uploader.Upload(context.Background(), FieldAvatar, fileHeader(t, "avatar", "cv.png", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj")))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
	assert.Equal(t, apperrors.ErrBadRequest, apperrors.KindOf(err))
}

func TestUpload_ResumeAcceptsPDF(t *testing.T) {
	uploader, _ := newUploader(t)

	stored, err := uploader.Upload(context.Background(), FieldResume, fileHeader(t, "resume", "cv.pdf", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj")))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", stored.MIMEType)
	assert.Equal(t, "cv.pdf", stored.Name)
}

func TestUpload_SizeAndFieldChecks(t *testing.T) {
	uploader, _ := newUploader(t)
	uploader.policies[FieldChatAttachment] = Policy{Folder: "chat", MaxSize: 10}

	_, err := uploader.Upload(context.Background(), FieldChatAttachment, fileHeader(t, "file", "big.bin", bytes.Repeat([]byte("a"), 11)))
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	_, err = uploader.Upload(context.Background(), "banner", fileHeader(t, "banner", "x.png", pngBytes))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestLocalStorage_DeleteRejectsForeignURL(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/uploads", zerolog.Nop())
	require.NoError(t, err)

	assert.Error(t, storage.Delete(context.Background(), "https://cdn.example.com/x.png"))
	assert.NoError(t, storage.Delete(context.Background(), "/uploads/avatars/missing.png"))
}
