package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/akosenkov/fleetdesk/internal/server/models"
)

type driverResponse struct {
	Driver *models.Driver `json:"driver"`
	Hash   string         `json:"hash,omitempty"`
}

func (s *Server) handleDriverList(w http.ResponseWriter, r *http.Request) {
	items, err := s.drivers.List(r.Context(), includeDeleted(r))
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"drivers": items})
}

func (s *Server) handleDriverGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	d, err := s.drivers.Get(r.Context(), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, driverResponse{Driver: d})
}

func (s *Server) handleDriverCreate(w http.ResponseWriter, r *http.Request) {
	var d models.Driver
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse driver")
		return
	}
	created, hash, err := s.drivers.Create(r.Context(), principalFrom(r.Context()), &d)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, driverResponse{Driver: created, Hash: hash})
}

func (s *Server) handleDriverUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	var d models.Driver
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse driver")
		return
	}
	d.ID = id
	updated, hash, err := s.drivers.Update(r.Context(), principalFrom(r.Context()), &d)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, driverResponse{Driver: updated, Hash: hash})
}

func (s *Server) handleDriverDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	hash, err := s.drivers.SoftDelete(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"hash": hash})
}

func (s *Server) handleDriverRecover(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	recovered, hash, err := s.drivers.Recover(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, driverResponse{Driver: recovered, Hash: hash})
}
