package account

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docmanager-backend/internal/shared/metrics"
	"docmanager-backend/internal/shared/server/middleware"
	"docmanager-backend/internal/shared/server/respond"
	"docmanager-backend/internal/users"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts signup and login on public and profile on authed.
func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/signup", h.signup)
	public.POST("/login", h.login)
	authed.GET("/profile", h.profile)
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin editor viewer"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "missing required fields", respond.BindingIssues(err))
		return
	}

	user, err := h.Svc.Signup(c.Request.Context(), users.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		users.WriteError(c, err)
		return
	}
	respond.Created(c, "User registered successfully", "user", user.Public())
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "missing email or password", respond.BindingIssues(err))
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			metrics.IncLogin("invalid")
		} else {
			metrics.IncLogin("error")
		}
		users.WriteError(c, err)
		return
	}
	metrics.IncLogin("success")
	respond.OK(c, gin.H{"token": token})
}

func (h *Handler) profile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "unauthorized", nil)
		return
	}
	user, err := h.Svc.Profile(c.Request.Context(), userID)
	if err != nil {
		users.WriteError(c, err)
		return
	}
	respond.OK(c, user.Public())
}
