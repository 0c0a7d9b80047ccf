package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"docmanager-backend/internal/shared/metrics"
	"docmanager-backend/internal/shared/storage/object"
	"docmanager-backend/internal/shared/telemetry"
	"docmanager-backend/internal/users"
)

// UserLookup resolves uploader records.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

// Upload is a file part received with a create or update request.
type Upload struct {
	FileName string
	Body     io.Reader
}

// CreateInput carries a new document and its file.
type CreateInput struct {
	Title       string
	Description string
	UploaderID  string
	File        *Upload
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	File        *Upload
}

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Users UserLookup
	now   func() time.Time
}

func NewService(store object.ObjectStore, repo Repo, lookup UserLookup) *Service {
	return &Service{Store: store, Repo: repo, Users: lookup, now: time.Now}
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// List returns every document joined with its uploader.
func (s *Service) List(ctx context.Context) ([]Listing, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	cache := make(map[string]*Uploader)
	out := make([]Listing, 0, len(docs))
	for _, doc := range docs {
		uploader, err := s.uploader(ctx, doc.UploadedBy, cache)
		if err != nil {
			return nil, err
		}
		out = append(out, Listing{Document: doc, Uploader: uploader})
	}
	return out, nil
}

// Get returns one document joined with its uploader.
func (s *Service) Get(ctx context.Context, id string) (Listing, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	uploader, err := s.uploader(ctx, doc.UploadedBy, nil)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Document: doc, Uploader: uploader}, nil
}

// Create stores the file and records the document. The file check runs
// before the title check.
func (s *Service) Create(ctx context.Context, in CreateInput) (Listing, error) {
	if in.File == nil || in.File.Body == nil {
		return Listing{}, ErrMissingFile
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Listing{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	uploader, err := s.uploader(ctx, in.UploaderID, nil)
	if err != nil {
		return Listing{}, err
	}
	if uploader == nil {
		return Listing{}, ErrUploaderNotFound
	}

	key, size, mimeType, err := s.save(ctx, in.UploaderID, in.File)
	if err != nil {
		return Listing{}, err
	}

	now := s.clock()
	doc := Document{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		FilePath:    key,
		FileName:    in.File.FileName,
		MimeType:    mimeType,
		SizeBytes:   size,
		UploadedBy:  in.UploaderID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		s.discard(ctx, key, "document.create.rollback")
		return Listing{}, err
	}

	telemetry.Info("document.created", map[string]any{
		"document_id": doc.ID,
		"user_id":     doc.UploadedBy,
		"size_bytes":  doc.SizeBytes,
		"mime_type":   doc.MimeType,
	})
	return Listing{Document: doc, Uploader: uploader}, nil
}

// Update applies metadata changes and optionally replaces the file. The old
// blob is removed only after the row points at the new one.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Listing, error) {
	if in.Title == nil && in.Description == nil && (in.File == nil || in.File.Body == nil) {
		return Listing{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Listing{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Listing{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		doc.Title = title
	}
	if in.Description != nil {
		doc.Description = strings.TrimSpace(*in.Description)
	}

	oldKey := ""
	if in.File != nil && in.File.Body != nil {
		namespace := doc.UploadedBy
		if namespace == "" {
			namespace = doc.ID
		}
		key, size, mimeType, err := s.save(ctx, namespace, in.File)
		if err != nil {
			return Listing{}, err
		}
		oldKey = doc.FilePath
		doc.FilePath = key
		doc.FileName = in.File.FileName
		doc.MimeType = mimeType
		doc.SizeBytes = size
	}

	doc.UpdatedAt = s.clock()
	if err := s.Repo.Update(ctx, doc); err != nil {
		if oldKey != "" {
			s.discard(ctx, doc.FilePath, "document.update.rollback")
		}
		return Listing{}, err
	}
	if oldKey != "" {
		s.discard(ctx, oldKey, "document.update.replace")
	}

	uploader, err := s.uploader(ctx, doc.UploadedBy, nil)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Document: doc, Uploader: uploader}, nil
}

// Delete removes the row and then its blob.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.discard(ctx, doc.FilePath, "document.delete")
	return nil
}

// Open returns the document and a reader over its stored file.
func (s *Service) Open(ctx context.Context, id string) (Document, io.ReadCloser, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.Store.Open(ctx, doc.FilePath)
	metrics.IncBlobOp("open", err)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Document{}, nil, ErrNotFound
		}
		return Document{}, nil, err
	}
	return doc, rc, nil
}

func (s *Service) save(ctx context.Context, namespace string, file *Upload) (string, int64, string, error) {
	key, size, mimeType, err := s.Store.Save(ctx, namespace, file.FileName, file.Body)
	metrics.IncBlobOp("save", err)
	if err != nil {
		if errors.Is(err, object.ErrInvalidFileName) {
			return "", 0, "", fmt.Errorf("%w: invalid file name", ErrInvalidInput)
		}
		return "", 0, "", fmt.Errorf("save blob: %w", err)
	}
	metrics.AddBlobBytes(size)
	return key, size, mimeType, nil
}

// discard deletes a blob best-effort; failures are logged, never returned.
func (s *Service) discard(ctx context.Context, key, reason string) {
	if key == "" {
		return
	}
	err := s.Store.Delete(ctx, key)
	if errors.Is(err, object.ErrNotFound) {
		err = nil
	}
	metrics.IncBlobOp("delete", err)
	if err != nil {
		telemetry.Warn("document.blob.delete_failed", map[string]any{
			"storage_key": key,
			"reason":      reason,
			"error":       err.Error(),
		})
	}
}

func (s *Service) uploader(ctx context.Context, userID string, cache map[string]*Uploader) (*Uploader, error) {
	if userID == "" || s.Users == nil {
		return nil, nil
	}
	if cache != nil {
		if u, ok := cache[userID]; ok {
			return u, nil
		}
	}
	user, err := s.Users.GetByID(ctx, userID)
	var out *Uploader
	switch {
	case err == nil:
		out = &Uploader{ID: user.ID, Name: user.Name, Email: user.Email, Role: string(user.Role)}
	case errors.Is(err, users.ErrNotFound):
		out = nil
	default:
		return nil, err
	}
	if cache != nil {
		cache[userID] = out
	}
	return out, nil
}
