package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
)

// Upload fields accepted by the API.
const (
	FieldAvatar          = "avatar"
	FieldLogo            = "logo"
	FieldResume          = "resume"
	FieldChatAttachment  = "chatAttachment"
	FieldChatAvatar      = "chatAvatar"
	FieldCommunityAvatar = "communityAvatar"
)

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

// Policy restricts what an upload field accepts. Allowed entries are MIME types;
// a trailing "/*" accepts a whole family. An empty Allowed accepts anything.
type Policy struct {
	Folder  string
	MaxSize int64
	Allowed []string
}

var imageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// DefaultPolicies returns the per-field upload rules.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		FieldAvatar:          {Folder: "avatars", MaxSize: 5 << 20, Allowed: imageTypes},
		FieldLogo:            {Folder: "logos", MaxSize: 5 << 20, Allowed: imageTypes},
		FieldResume:          {Folder: "resumes", MaxSize: 10 << 20, Allowed: []string{"application/pdf", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}},
		FieldChatAttachment:  {Folder: "chat", MaxSize: 25 << 20},
		FieldChatAvatar:      {Folder: "chat-avatars", MaxSize: 5 << 20, Allowed: imageTypes},
		FieldCommunityAvatar: {Folder: "community-avatars", MaxSize: 5 << 20, Allowed: imageTypes},
	}
}

func (p Policy) allows(m *mimetype.MIME) bool {
	if len(p.Allowed) == 0 {
		return true
	}
	for _, allowed := range p.Allowed {
		if family, ok := strings.CutSuffix(allowed, "/*"); ok {
			if strings.HasPrefix(m.String(), family+"/") {
				return true
			}
			continue
		}
		if m.Is(allowed) {
			return true
		}
	}
	return false
}

// Uploader validates multipart files against field policies and stores them.
type Uploader struct {
	storage  FileStorage
	policies map[string]Policy
}

// NewUploader creates an Uploader over storage using policies.
func NewUploader(storage FileStorage, policies map[string]Policy) *Uploader {
	return &Uploader{storage: storage, policies: policies}
}

// Upload checks the size and sniffed content type of fh against the policy
// of field, then saves it. The declared Content-Type header is ignored.
func (u *Uploader) Upload(ctx context.Context, field string, fh *multipart.FileHeader) (*models.StoredFile, error) {
	policy, ok := u.policies[field]
	if !ok {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown upload field %q", field))
	}
	if fh == nil || fh.Size == 0 {
		return nil, apperrors.NewBadRequestError("file is empty")
	}
	if policy.MaxSize > 0 && fh.Size > policy.MaxSize {
		return nil, apperrors.NewCustomError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("%s must be at most %d MB", field, policy.MaxSize>>20))
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !policy.allows(mtype) {
		return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFormat,
			fmt.Sprintf("%s does not accept %s files", field, mtype.String()))
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(fh.Filename))
	}

	url, err := u.storage.Save(ctx, policy.Folder, ext, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		return nil, err
	}

	return &models.StoredFile{
		URL:      url,
		Name:     filepath.Base(fh.Filename),
		Size:     fh.Size,
		MIMEType: mtype.String(),
	}, nil
}

// Remove deletes a previously uploaded file.
func (u *Uploader) Remove(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	return u.storage.Delete(ctx, url)
}
