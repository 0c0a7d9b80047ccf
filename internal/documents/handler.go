package documents

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"docmanager-backend/internal/shared/server/middleware"
	"docmanager-backend/internal/shared/server/respond"
)

const defaultMaxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadSize
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches document routes. read and write are the permission
// gates for each half of the surface.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, read, write gin.HandlerFunc) {
	rg.GET("", read, h.list)
	rg.GET("/:id", read, h.get)
	rg.GET("/:id/file", read, h.download)
	rg.POST("", write, h.create)
	rg.PUT("/:id", write, h.update)
	rg.DELETE("/:id", write, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Internal(c, "failed to list documents", err)
		return
	}
	respond.OK(c, toResponses(list))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)
	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	file, fileName, err := h.formFile(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if file == nil {
		writeError(c, ErrMissingFile)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Create(c.Request.Context(), CreateInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		UploaderID:  middleware.UserIDFromContext(c),
		File:        &Upload{FileName: fileName, Body: file},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("documentId", doc.ID)
	respond.Created(c, "Document uploaded successfully", "document", toResponse(doc))
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	var in UpdateInput
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm, binding.MIMEPOSTForm:
		file, fileName, err := h.formFile(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if file != nil {
			defer file.Close()
			in.File = &Upload{FileName: fileName, Body: file}
		}
		if title, ok := c.GetPostForm("title"); ok {
			in.Title = &title
		}
		if description, ok := c.GetPostForm("description"); ok {
			in.Description = &description
		}
	default:
		var req UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(c, err)
				return
			}
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid JSON body", nil)
			return
		}
		in.Title = req.Title
		in.Description = req.Description
	}

	doc, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Updated(c, "Document updated successfully", "document", toResponse(doc))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	respond.Message(c, http.StatusOK, "Document deleted successfully")
}

func (h *Handler) download(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)
	doc, rc, err := h.Svc.Open(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, doc.SizeBytes, mimeType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.FileName),
	})
}

// formFile returns the optional "file" part. A missing part (or a body that
// is not multipart) yields a nil file and no error.
func (h *Handler) formFile(c *gin.Context) (multipart.File, string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		return nil, "", nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("%w: unable to read file", ErrInvalidInput)
	}
	return file, header.Filename, nil
}

func writeError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodePayloadTooLarge, "file exceeds upload limit", gin.H{"limitBytes": tooLarge.Limit})
	case errors.Is(err, ErrMissingFile):
		respond.Error(c, http.StatusBadRequest, respond.CodeMissingFile, "document file is required", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "document not found", nil)
	case errors.Is(err, ErrUploaderNotFound):
		respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "user no longer exists", nil)
	default:
		respond.Internal(c, "internal server error", err)
	}
}
