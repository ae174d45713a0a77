package handler

import (
	"net/http"
	"strings"
)

// ErrorResponse is the JSON envelope for every non-2xx body.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// notFound writes a 404 for a missing resource. The caller supplies the
// human-readable message (e.g. "trip not found") because the handler is the
// layer that knows what was being looked up.
func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}})
}

// validationFailed writes a 422 for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationFailed(w http.ResponseWriter, err error) {
	badRequest(w, unwrapMessage(err))
}

// badRequest writes a 422 for a request rejected before reaching the
// service layer (e.g. missing or malformed body).
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}})
}

// unauthorized writes a 401 for missing or invalid credentials.
func unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{Code: "unauthorized", Message: message}})
}

// internalError writes a 500 with a generic message. The real error is
// left to the request logger; internals never leak to clients.
func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: title is required" → "title is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	return msg
}
