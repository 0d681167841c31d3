package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/metropolia/infoscreen/internal/logging"
	"github.com/metropolia/infoscreen/internal/models"
	"github.com/metropolia/infoscreen/internal/opendata"
	"github.com/metropolia/infoscreen/internal/service"
)

// Error codes of the error envelope
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeValidation    = "VALIDATION_ERROR"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeInternal      = "INTERNAL_ERROR"
	CodeNotConfigured = "NOT_CONFIGURED"
)

// maxBodyBytes limits decoded request bodies
const maxBodyBytes = 4 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Error   *ErrorInfo `json:"error"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse is a plain informational body
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Message: message,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, CodeBadRequest, message, nil)
}

// respondError maps service and gateway errors to status codes
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, CodeValidation, "Validation failed", verr.Fields)
	case errors.Is(err, models.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, "Room not found", nil)
	case errors.Is(err, models.ErrCampusNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, "Business hours not found", nil)
	case errors.Is(err, models.ErrNoRooms):
		writeError(w, http.StatusNotFound, CodeNotFound, "Rooms data not found", nil)
	case errors.Is(err, models.ErrRoomExists):
		writeError(w, http.StatusConflict, CodeConflict, "Room already exists", nil)
	case errors.Is(err, opendata.ErrUpstream):
		logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Reservation API request failed")
		writeError(w, http.StatusBadGateway, CodeUpstream, "Reservation service unavailable", nil)
	default:
		logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
	}
}

// decodeJSON decodes the request body into v, answering 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()

	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err != nil {
		if errors.Is(err, io.EOF) {
			badRequest(w, "Request body is required")
		} else {
			badRequest(w, "Invalid request body")
		}
		return false
	}
	return true
}
