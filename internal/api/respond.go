package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MediSynth-io/todos/internal/common"
	"github.com/MediSynth-io/todos/internal/validation"
)

type errorResponse struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.Wrap(common.ErrValidation, err, "Request body too large")
		}
		return common.Wrap(common.ErrValidation, err, "Invalid request body")
	}
	return nil
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (api *Api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorResponse{
		StatusCode: status,
		Message:    common.PublicMessage(err),
		Error:      http.StatusText(status),
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body.Message = "Validation failed"
		body.Fields = verr.Fields
	}

	if status == http.StatusInternalServerError {
		api.logger.Error(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		body.Message = "Internal server error"
	}
	if body.Message == "" {
		body.Message = body.Error
	}

	writeJSON(w, status, body)
}

func (api *Api) writeStatus(w http.ResponseWriter, _ *http.Request, status int, message string) {
	writeJSON(w, status, errorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}
