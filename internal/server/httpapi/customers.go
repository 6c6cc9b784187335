package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/akosenkov/fleetdesk/internal/server/models"
)

type customerResponse struct {
	Customer *models.Customer `json:"customer"`
	Hash     string           `json:"hash,omitempty"`
}

func (s *Server) handleCustomerList(w http.ResponseWriter, r *http.Request) {
	items, err := s.customers.List(r.Context(), includeDeleted(r))
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"customers": items})
}

func (s *Server) handleCustomerGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	c, err := s.customers.Get(r.Context(), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, customerResponse{Customer: c})
}

func (s *Server) handleCustomerCreate(w http.ResponseWriter, r *http.Request) {
	var c models.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse customer")
		return
	}
	created, hash, err := s.customers.Create(r.Context(), principalFrom(r.Context()), &c)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, customerResponse{Customer: created, Hash: hash})
}

func (s *Server) handleCustomerUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	var c models.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse customer")
		return
	}
	c.ID = id
	updated, hash, err := s.customers.Update(r.Context(), principalFrom(r.Context()), &c)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, customerResponse{Customer: updated, Hash: hash})
}

func (s *Server) handleCustomerDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	hash, err := s.customers.SoftDelete(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"hash": hash})
}

func (s *Server) handleCustomerRecover(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	recovered, hash, err := s.customers.Recover(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, customerResponse{Customer: recovered, Hash: hash})
}
