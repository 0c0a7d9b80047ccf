package ingestions

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docmanager-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches ingestion routes behind the given permission gates.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, read, write, remove gin.HandlerFunc) {
	rg.GET("", read, h.list)
	rg.GET("/:id", read, h.get)
	rg.POST("", write, h.create)
	rg.PUT("/:id", write, h.update)
	rg.DELETE("/:id", remove, h.delete)
}

type createRequest struct {
	SourceType string `json:"sourceType" binding:"required"`
}

type updateRequest struct {
	Status    *string    `json:"status"`
	Logs      []string   `json:"logs"`
	CreatedAt *time.Time `json:"createdAt"`
}

func (h *Handler) list(c *gin.Context) {
	jobs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Internal(c, "failed to fetch ingestion jobs", err)
		return
	}
	if jobs == nil {
		jobs = []Job{}
	}
	respond.OK(c, jobs)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("ingestionId", id)
	job, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, job)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "sourceType is required", respond.BindingIssues(err))
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), req.SourceType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("ingestionId", job.ID)
	respond.Created(c, "Ingestion job created", "ingestion", job)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set("ingestionId", id)
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", respond.BindingIssues(err))
		return
	}
	job, err := h.Svc.Update(c.Request.Context(), id, UpdateInput{
		Status:    req.Status,
		Logs:      req.Logs,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("ingestionStatus", string(job.Status))
	respond.Updated(c, "Ingestion job updated", "ingestion", job)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("ingestionId", id)
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	respond.Message(c, http.StatusOK, "Ingestion job deleted")
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "ingestion job not found", nil)
	default:
		respond.Internal(c, "internal server error", err)
	}
}
