package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"ytharvest/internal/middleware"
	apperrors "ytharvest/pkg/errors"
	"ytharvest/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError maps application errors onto HTTP responses. Unclassified
// errors are reported as internal without leaking their message.
func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.NewInternalError("internal server error", err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(appErr).WithField("path", r.URL.Path).Error("request failed")
	}

	var resp apperrors.ErrorResponse
	resp.Error.Type = appErr.Type
	resp.Error.Message = appErr.Message
	resp.Error.Details = appErr.Details
	resp.Error.RequestID = middleware.GetRequestID(r.Context())
	resp.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, resp)
}
