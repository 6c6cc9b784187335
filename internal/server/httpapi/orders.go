package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/akosenkov/fleetdesk/internal/server/models"
)

type orderResponse struct {
	Order *models.Order `json:"order"`
	Hash  string        `json:"hash,omitempty"`
}

func (s *Server) handleOrderList(w http.ResponseWriter, r *http.Request) {
	items, err := s.orders.List(r.Context(), includeDeleted(r))
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"orders": items})
}

func (s *Server) handleOrderGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	o, err := s.orders.Get(r.Context(), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, orderResponse{Order: o})
}

func (s *Server) handleOrderCreate(w http.ResponseWriter, r *http.Request) {
	var o models.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse order")
		return
	}
	created, hash, err := s.orders.Create(r.Context(), principalFrom(r.Context()), &o)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, orderResponse{Order: created, Hash: hash})
}

func (s *Server) handleOrderUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	var o models.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse order")
		return
	}
	o.ID = id
	updated, hash, err := s.orders.Update(r.Context(), principalFrom(r.Context()), &o)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, orderResponse{Order: updated, Hash: hash})
}

func (s *Server) handleOrderDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	hash, err := s.orders.SoftDelete(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"hash": hash})
}

func (s *Server) handleOrderRecover(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	recovered, hash, err := s.orders.Recover(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, orderResponse{Order: recovered, Hash: hash})
}
