package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akosenkov/fleetdesk/internal/common"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(ctx, "error encoding response", "error", err)
	}
}

// writeError writes a standardized error response.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, statusCode int, errorCode, message string) {
	s.writeJSON(ctx, w, statusCode, errorResponse{Error: errorCode, Message: message})
}

// respondError maps service errors to HTTP responses. Sentinel errors carry
// their own status; anything unrecognized is a 500 with a generic message so
// internals do not leak to clients.
func (s *Server) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		s.writeError(ctx, w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(ctx, w, http.StatusNotFound, "not_found", "entity not found")
	case errors.Is(err, common.ErrorAlreadyDeleted):
		s.writeError(ctx, w, http.StatusConflict, "already_deleted", "entity is already deleted")
	case errors.Is(err, common.ErrorAlreadyActive):
		s.writeError(ctx, w, http.StatusConflict, "already_active", "entity is not deleted")
	case errors.Is(err, common.ErrorEntityDeleted):
		s.writeError(ctx, w, http.StatusConflict, "entity_deleted", "entity is deleted")
	case errors.Is(err, common.ErrInvalidToken):
		s.writeError(ctx, w, http.StatusUnprocessableEntity, "invalid_token", "token is invalid or expired")
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeError(ctx, w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		s.writeError(ctx, w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
