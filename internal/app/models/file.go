package models

// StoredFile describes a file persisted by the storage backend
type StoredFile struct {
	URL      string `json:"url"`
	Path     string `json:"-"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MIMEType string `json:"mimeType"`
}

// IsImage reports whether the sniffed MIME type is an image.
func (f *StoredFile) IsImage() bool {
	return len(f.MIMEType) >= 6 && f.MIMEType[:6] == "image/"
}
