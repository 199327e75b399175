package api

import (
	"encoding/json"
	"net/http"

	apperrors "trading-journal/internal/errors"
)

// writeJSON encodes v as the JSON response body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// respondError maps domain errors to HTTP statuses: validation errors to
// 400, unknown ids to 404, everything else to 500 with the detail kept out
// of the response body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *apperrors.ValidationError
	switch {
	case apperrors.As(err, &vErr):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: vErr.Error()})
	case apperrors.Is(err, apperrors.ErrTradeNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Trade not found"})
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
	}
}

// badRequest responds 400 with the given detail message.
func (s *Server) badRequest(w http.ResponseWriter, detail string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Detail: detail})
}
