package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/akosenkov/fleetdesk/internal/server/models"
)

type vehicleResponse struct {
	Vehicle *models.Vehicle `json:"vehicle"`
	Hash    string          `json:"hash,omitempty"`
}

func (s *Server) handleVehicleList(w http.ResponseWriter, r *http.Request) {
	items, err := s.vehicles.List(r.Context(), includeDeleted(r))
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"vehicles": items})
}

func (s *Server) handleVehicleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	v, err := s.vehicles.Get(r.Context(), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, vehicleResponse{Vehicle: v})
}

func (s *Server) handleVehicleCreate(w http.ResponseWriter, r *http.Request) {
	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse vehicle")
		return
	}
	created, hash, err := s.vehicles.Create(r.Context(), principalFrom(r.Context()), &v)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, vehicleResponse{Vehicle: created, Hash: hash})
}

func (s *Server) handleVehicleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		s.writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "failed to parse vehicle")
		return
	}
	v.ID = id
	updated, hash, err := s.vehicles.Update(r.Context(), principalFrom(r.Context()), &v)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, vehicleResponse{Vehicle: updated, Hash: hash})
}

func (s *Server) handleVehicleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	hash, err := s.vehicles.SoftDelete(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"hash": hash})
}

func (s *Server) handleVehicleRecover(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r)
	if !ok {
		return
	}
	recovered, hash, err := s.vehicles.Recover(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		s.respondError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, vehicleResponse{Vehicle: recovered, Hash: hash})
}
