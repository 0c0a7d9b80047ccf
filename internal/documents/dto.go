package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FilePath    string    `json:"filePath"`
	FileName    string    `json:"fileName"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  *Uploader `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateRequest is the JSON form of a metadata-only update. Absent fields are
// left unchanged.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func toResponse(l Listing) DocumentResponse {
	return DocumentResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		FilePath:    l.FilePath,
		FileName:    l.FileName,
		MimeType:    l.MimeType,
		SizeBytes:   l.SizeBytes,
		UploadedBy:  l.Uploader,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toResponses(list []Listing) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toResponse(l))
	}
	return out
}
