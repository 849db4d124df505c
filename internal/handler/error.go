package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/dukerupert/numlookup/internal/middleware"
	"github.com/dukerupert/numlookup/internal/telemetry"
)

// ErrorResponse writes err to the client.
// JSON when the client asks for it, plain text otherwise. Server errors are
// logged at error level and sent to Sentry.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := LogError(r, err)
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)

	if acceptsJSON(r) {
		writeJSONError(w, status, code, message, nil)
		return
	}

	http.Error(w, message, status)
}

// LogError logs err like ErrorResponse does and returns its HTTP status.
// Handlers that render their own error markup call it instead.
func LogError(r *http.Request, err error) int {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"op", domain.ErrorOp(err),
		"status", status,
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
			"path": r.URL.Path,
			"code": code,
		})
	} else {
		logger.Info("request failed", attrs...)
	}
	return status
}

// ValidationErrorResponse writes field errors. Non-validation errors fall
// back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	fields := domain.GetValidationFields(err)
	if fields == nil {
		ErrorResponse(w, r, err)
		return
	}

	message := "Validation failed"
	if len(fields) == 1 {
		for _, msg := range fields {
			message = msg
		}
	}

	if acceptsJSON(r) {
		writeJSONError(w, http.StatusBadRequest, domain.EINVALID, message, fields)
		return
	}
	http.Error(w, message, http.StatusBadRequest)
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.ENETWORK, domain.ERESPONSE:
		return http.StatusBadGateway // 502
	case domain.ECONFIG, domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable // 503
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	body := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if fields != nil {
		body["fields"] = fields
	}
	WriteJSON(w, status, map[string]interface{}{"error": body})
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// acceptsJSON checks if the client prefers JSON responses.
func acceptsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.Contains(contentType, "application/json") {
		return true
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}

	return false
}
