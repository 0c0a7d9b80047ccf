package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docmanager-backend/internal/shared/auth"
	"docmanager-backend/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	userRoleKey = "userRole"
)

// TokenVerifier validates a bearer token and returns its identity.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Authenticate requires a valid bearer token and stores the identity in context.
// A missing or non-bearer header is 401; a token that fails verification is 403.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "authorization header missing", nil)
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusForbidden, respond.CodeInvalidToken, "invalid or expired token", nil)
			return
		}

		c.Set(userIDKey, identity.UserID)
		c.Set(userRoleKey, identity.Role)
		c.Next()
	}
}

// Authorize rejects callers whose role is not on the permission's allow-list.
// It must run after Authenticate.
func Authorize(perm auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserIDFromContext(c) == "" {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "user not authenticated", nil)
			return
		}
		if !auth.Allowed(RoleFromContext(c), perm) {
			respond.Error(c, http.StatusForbidden, respond.CodeInsufficientPermission, "forbidden: insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// RoleFromContext fetches the role set by the auth middleware.
func RoleFromContext(c *gin.Context) auth.Role {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userRoleKey)
	if role, ok := val.(auth.Role); ok {
		return role
	}
	return ""
}
