package httpapi

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse login request")
		return
	}
	if req.Email == "" || req.Password == "" {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "missing credentials")
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"token": token})
}

// handleRecoverRequest starts the password-recovery flow. The response is
// 202 whether or not the address belongs to an account, so the endpoint
// cannot be used to enumerate users.
func (s *Server) handleRecoverRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse recover request")
		return
	}
	if req.Email == "" {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	if err := s.users.RequestRecovery(r.Context(), req.Email); err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleResetValidate is a read-only probe used by the reset form before it
// asks the user for a new password. Probing does not consume the token.
func (s *Server) handleResetValidate(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	ok, err := s.users.ValidateResetToken(r.Context(), token)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]bool{"valid": ok})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse reset request")
		return
	}
	if req.Token == "" {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	if err := s.users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "password updated"})
}
