package documents

import "time"

// Document is a stored file plus its metadata. FilePath is the blob storage key.
type Document struct {
	ID          string
	Title       string
	Description string
	FilePath    string
	FileName    string
	MimeType    string
	SizeBytes   int64
	UploadedBy  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Uploader is the display projection of the user who uploaded a document.
type Uploader struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Listing is a document joined with its uploader, nil when the uploader is gone.
type Listing struct {
	Document
	Uploader *Uploader
}
