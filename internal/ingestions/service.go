package ingestions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docmanager-backend/internal/shared/telemetry"
)

// Service contains business logic for ingestion jobs.
type Service struct {
	Repo Repo
	now  func() time.Time
}

// UpdateInput is a partial update; Logs are appended, never replaced.
type UpdateInput struct {
	Status    *string
	Logs      []string
	CreatedAt *time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: time.Now}
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

func (s *Service) List(ctx context.Context) ([]Job, error) {
	return s.Repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Job, error) {
	if strings.TrimSpace(id) == "" {
		return Job{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// Create records a new pending job for sourceType.
func (s *Service) Create(ctx context.Context, sourceType string) (Job, error) {
	sourceType = strings.TrimSpace(sourceType)
	if sourceType == "" {
		return Job{}, fmt.Errorf("%w: sourceType is required", ErrInvalidInput)
	}
	now := s.clock()
	job := Job{
		ID:         uuid.NewString(),
		SourceType: sourceType,
		Status:     StatusPending,
		Logs:       []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	telemetry.Info("ingestion.created", map[string]any{"ingestion_id": job.ID, "source_type": job.SourceType})
	return job, nil
}

// Update changes status or createdAt and appends log lines.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Job, error) {
	patch := Patch{UpdatedAt: s.clock(), CreatedAt: in.CreatedAt}
	if in.Status != nil {
		status, ok := ParseStatus(*in.Status)
		if !ok {
			return Job{}, fmt.Errorf("%w: status must be one of pending, running, completed, failed", ErrInvalidInput)
		}
		patch.Status = &status
	}
	for _, line := range in.Logs {
		if strings.TrimSpace(line) != "" {
			patch.AppendLogs = append(patch.AppendLogs, line)
		}
	}

	job, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		return Job{}, err
	}
	if patch.Status != nil {
		telemetry.Info("ingestion.status", map[string]any{"ingestion_id": job.ID, "status": string(job.Status)})
	}
	return job, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, id)
}
