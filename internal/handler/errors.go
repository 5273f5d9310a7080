package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	apperrors "acgl-management-api/pkg/errors"
)

// ErrorResponse is the JSON shape of every error payload.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorHandler provides centralized error handling functionality for handlers
type ErrorHandler struct {
	Logger *log.Logger
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(logger *log.Logger) *ErrorHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorHandler{Logger: logger}
}

// SendErrorResponse sends a structured error response
func (e *ErrorHandler) SendErrorResponse(w http.ResponseWriter, statusCode int, message, code string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		e.Logger.Printf("Failed to encode error response: %v", err)
	}
}

// SendJSONResponse sends a generic JSON response
func (e *ErrorHandler) SendJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		e.Logger.Printf("Failed to encode JSON response: %v", err)
	}
}

// HandleServiceError maps a service-layer error to an HTTP response. App
// errors carry their own status; anything else is a generic database error,
// reported without detail.
func (e *ErrorHandler) HandleServiceError(w http.ResponseWriter, err error, operation string) {
	e.Logger.Printf("Service error during %s: %v", operation, err)

	if appErr, ok := apperrors.AsAppError(err); ok {
		e.SendErrorResponse(w, appErr.GetHTTPStatus(), appErr.Message, string(appErr.Code), nil)
		return
	}
	if err == context.DeadlineExceeded {
		e.SendErrorResponse(w, http.StatusRequestTimeout, "Operation timed out", string(apperrors.ErrorCodeTimeout), nil)
		return
	}
	e.SendErrorResponse(w, http.StatusInternalServerError, "Database error", string(apperrors.ErrorCodeDatabase), nil)
}

// HandleJSONDecodeError handles JSON decoding errors
func (e *ErrorHandler) HandleJSONDecodeError(w http.ResponseWriter, err error) {
	e.Logger.Printf("JSON decode error: %v", err)
	e.SendErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", string(apperrors.ErrorCodeInvalidJSON), nil)
}

// ParseAndValidateID parses a numeric record id from a path variable.
func (e *ErrorHandler) ParseAndValidateID(w http.ResponseWriter, idStr string) (int64, bool) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		e.SendErrorResponse(w, http.StatusBadRequest, "Invalid record id", string(apperrors.ErrorCodeBadRequest), nil)
		return 0, false
	}
	return id, true
}
