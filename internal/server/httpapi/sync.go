package httpapi

import (
	"encoding/json"
	"net/http"
)

type verifyRequest struct {
	Table string `json:"table"`
	Hash  string `json:"hash"`
}

type verifyResponse struct {
	// Result is "1" when the client-held hash is current and "0" when the
	// client must refetch. Hash always carries the authoritative value.
	Result string `json:"result"`
	Hash   string `json:"hash"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse verify request")
		return
	}
	if req.Table == "" {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "table is required")
		return
	}

	res, err := s.coherency.Verify(req.Table, req.Hash)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}

	result := "0"
	if res.Matched {
		result = "1"
	}
	s.writeJSON(r.Context(), w, http.StatusOK, verifyResponse{Result: result, Hash: res.Fingerprint})
}
