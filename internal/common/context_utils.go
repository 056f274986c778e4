package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
)

// ErrorResponse is the error envelope every non-2xx response carries.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResponse builds the envelope with the current UTC timestamp.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// SendError writes the envelope with the given HTTP status.
func SendError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, NewErrorResponse(code, message))
}

func SendValidationError(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, "validation_error", message)
}

func SendClientError(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, "bad_request", message)
}

func SendNotFoundError(c echo.Context, resource string) error {
	return SendError(c, http.StatusNotFound, "not_found", fmt.Sprintf("%s not found", resource))
}

func SendUnauthorizedError(c echo.Context, message string) error {
	if message == "" {
		message = "Authentication required"
	}
	return SendError(c, http.StatusUnauthorized, "unauthorized", message)
}

func SendForbiddenError(c echo.Context, message string) error {
	if message == "" {
		message = "Access denied"
	}
	return SendError(c, http.StatusForbidden, "forbidden", message)
}

func SendServerError(c echo.Context, message string) error {
	return SendError(c, http.StatusInternalServerError, "internal_error", message)
}

// ValidateUUID parses a path or query id, reporting the field name on error.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", fieldName)
	}
	return id, nil
}

// ValidateRequiredString validates required string fields.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateDateRange checks ordering of a start/end pair.
func ValidateDateRange(start, end time.Time, startField, endField string) error {
	if !end.After(start) {
		return fmt.Errorf("%s must be after %s", endField, startField)
	}
	return nil
}

// SafeString safely dereferences string pointers.
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SafeFloat64 safely dereferences float pointers.
func SafeFloat64(f *float64) float64 {
	if f == nil {
		return 0.0
	}
	return *f
}

// GetUserIDFromContext extracts the authenticated user id from the request
// context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserEmailFromContext extracts the authenticated user's email, when the
// token carried one.
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}
