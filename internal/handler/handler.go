package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"retro-hunt/internal/model"

	"github.com/rs/zerolog"
)

// RequestIDHeader carries the correlation id of a request.
const RequestIDHeader = "X-Request-ID"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	correlationID := w.Header().Get(RequestIDHeader)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Str("request_id", correlationID).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: correlationID,
	})
}

// writeServiceError maps a service error onto its HTTP status.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	var cfgErr *model.ConfigurationError
	var srcErr *model.SourceUnavailableError

	switch {
	case errors.As(err, &domainErr):
		status := http.StatusBadRequest
		switch domainErr.Code {
		case model.ErrCodeProductNotFound, model.ErrCodeNoAffiliateLink:
			status = http.StatusNotFound
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)

	case errors.As(err, &cfgErr):
		writeError(w, http.StatusInternalServerError, model.ErrCodeConfiguration, cfgErr.Error(), logger)

	case errors.As(err, &srcErr):
		logger.Error().Err(srcErr.Err).Str("source", srcErr.Source).Msg("product source unavailable")
		writeError(w, http.StatusServiceUnavailable, model.ErrCodeSourceUnavailable,
			"The product feed is temporarily unavailable", logger)

	default:
		logger.Error().Err(err).Msg("unexpected service error")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError,
			"An unexpected error occurred", logger)
	}
}

// methodNotAllowed rejects anything but GET and HEAD.
func methodNotAllowed(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return false
	}

	w.Header().Set("Allow", "GET, HEAD")
	writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", logger)
	return true
}
