package ingestions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgInvalidTextRepresentation = "22P02"

// PGRepo implements Repo using Postgres. Logs live in a JSONB array.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, source_type, status, logs, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var status string
	var rawLogs []byte
	if err := row.Scan(&job.ID, &job.SourceType, &status, &rawLogs, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return Job{}, err
	}
	job.Status = Status(status)
	job.Logs = []string{}
	if len(rawLogs) > 0 {
		if err := json.Unmarshal(rawLogs, &job.Logs); err != nil {
			return Job{}, fmt.Errorf("decode logs: %w", err)
		}
	}
	return job, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Job, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+jobColumns+` FROM ingestion_jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Job, error) {
	job, err := scanJob(r.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM ingestion_jobs WHERE id = $1 LIMIT 1`, id))
	if err != nil {
		if isMissing(err) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	logs, err := encodeLogs(job.Logs)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO ingestion_jobs (id, source_type, status, logs, created_at, updated_at)
VALUES ($1, $2, $3, $4::jsonb, $5, $6)`
	_, err = r.DB.ExecContext(ctx, query,
		job.ID,
		job.SourceType,
		string(job.Status),
		logs,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// Update applies patch in one statement; logs are concatenated server side.
func (r *PGRepo) Update(ctx context.Context, id string, patch Patch) (Job, error) {
	appendLogs, err := encodeLogs(patch.AppendLogs)
	if err != nil {
		return Job{}, err
	}
	var status any
	if patch.Status != nil {
		status = string(*patch.Status)
	}
	var createdAt any
	if patch.CreatedAt != nil {
		createdAt = *patch.CreatedAt
	}

	const query = `
UPDATE ingestion_jobs
SET status = COALESCE($2, status),
    created_at = COALESCE($3, created_at),
    logs = logs || $4::jsonb,
    updated_at = $5
WHERE id = $1
RETURNING ` + jobColumns
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id, status, createdAt, appendLogs, patch.UpdatedAt))
	if err != nil {
		if isMissing(err) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM ingestion_jobs WHERE id = $1`, id)
	if err != nil {
		if isMissing(err) {
			return ErrNotFound
		}
		return err
	}
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

func encodeLogs(logs []string) (string, error) {
	if logs == nil {
		logs = []string{}
	}
	raw, err := json.Marshal(logs)
	if err != nil {
		return "", fmt.Errorf("encode logs: %w", err)
	}
	return string(raw), nil
}

var _ Repo = (*PGRepo)(nil)
