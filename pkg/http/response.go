package http

import (
	"encoding/json"
	"net/http"

	apperrors "roomly/pkg/errors"
)

// Envelope is the uniform response shape for every operation. Callers treat
// success=false as the complete failure signal; no raw errors cross this
// boundary.
type Envelope struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Data    any            `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Success    bool  `json:"success"`
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	msg := appErr.Message
	details := appErr.Details
	if appErr.Code == apperrors.CodeInternal {
		// Generic message for internal failures; the cause is logged at the
		// point of catch, never surfaced.
		msg = "Internal server error"
		details = nil
	}

	return WriteJSON(w, appErr.StatusCode(), Envelope{
		Success: false,
		Error:   msg,
		Details: details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

func WriteOK(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusOK, Envelope{Success: true})
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Success:    true,
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     int(offset),
	})
}
