package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

// respondJSON writes data as a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError maps an error onto the JSON error envelope. Unknown error
// values become opaque internal errors so internals never leak.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		log.WithError(err).Error("Unhandled error reached the response writer")
		appErr = errors.NewInternalError("Internal server error", err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(appErr).Error("Request failed")
	} else {
		log.WithError(appErr).Debug("Request rejected")
	}

	response := &errors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response)
}
