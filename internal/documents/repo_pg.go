package documents

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgInvalidTextRepresentation = "22P02"

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, title, description, file_path, file_name, mime_type, size_bytes, uploaded_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var uploadedBy sql.NullString
	if err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Description,
		&doc.FilePath,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&uploadedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return Document{}, err
	}
	if uploadedBy.Valid {
		doc.UploadedBy = uploadedBy.String
	}
	return doc, nil
}

// List returns all documents, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Document, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 LIMIT 1`, id))
	if err != nil {
		if isMissing(err) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    title,
    description,
    file_path,
    file_name,
    mime_type,
    size_bytes,
    uploaded_by,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.FilePath,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		nullableString(doc.UploadedBy),
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// Update overwrites the mutable columns of a document.
func (r *PGRepo) Update(ctx context.Context, doc Document) error {
	const query = `
UPDATE documents
SET title = $2, description = $3, file_path = $4, file_name = $5, mime_type = $6, size_bytes = $7, updated_at = $8
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.FilePath,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.UpdatedAt,
	)
	if err != nil {
		if isMissing(err) {
			return ErrNotFound
		}
		return err
	}
	return requireAffected(res)
}

// Delete removes a document row.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		if isMissing(err) {
			return ErrNotFound
		}
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isMissing reports whether err means no row can match: either nothing was
// found or the id is not a valid UUID.
func isMissing(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
