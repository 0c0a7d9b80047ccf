package respond

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"docmanager-backend/internal/shared/telemetry"
)

// Error codes shared by all handlers.
const (
	CodeValidation             = "validation_error"
	CodeMissingFile            = "missing_file"
	CodeUnauthorized           = "unauthorized"
	CodeInvalidCredentials     = "invalid_credentials"
	CodeInvalidToken           = "invalid_token"
	CodeInsufficientPermission = "insufficient_permission"
	CodeNotFound               = "not_found"
	CodeConflict               = "conflict"
	CodePayloadTooLarge        = "payload_too_large"
	CodeRateLimited            = "rate_limited"
	CodeInternal               = "internal_error"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// FieldIssue describes one invalid request field.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Internal logs err with request context and sends a generic 500.
func Internal(c *gin.Context, message string, err error) {
	if err != nil {
		telemetry.Error("http.internal", map[string]any{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("requestId"),
			"error":      err.Error(),
		})
	}
	Error(c, 500, CodeInternal, message, nil)
}

// BindingIssues converts a binding error into per-field issues. Non-validator
// errors (malformed JSON, wrong types) yield a single "body" issue.
func BindingIssues(err error) []FieldIssue {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldIssue, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldIssue{Field: lowerFirst(fe.Field()), Issue: fe.Tag()})
		}
		return out
	}
	return []FieldIssue{{Field: "body", Issue: "invalid"}}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
