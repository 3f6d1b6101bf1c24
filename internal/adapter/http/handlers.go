package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/lead-capture-service/internal/domain"
)

// maxBodyBytes caps lead and toggle request bodies.
const maxBodyBytes = 64 << 10

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.stations.Stations(r.Context())
	if err != nil {
		s.logger.Error("fetch stations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stations")
		return
	}
	w.Header().Set("Cache-Control", s.cacheCtl)
	writeJSON(w, http.StatusOK, stations)
}

func (s *Server) handleSubmitLead(w http.ResponseWriter, r *http.Request) {
	var sub domain.LeadSubmission
	if err := decodeBody(w, r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lead, err := s.leads.Submit(r.Context(), sub)
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case err != nil:
		s.logger.Error("submit lead failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": lead.ID})
	}
}

type leadsResponse struct {
	Leads []domain.Lead `json:"leads"`
	Error string        `json:"error,omitempty"`
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.leads.List(r.Context())
	if err != nil {
		s.logger.Error("list leads failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, leadsResponse{
			Leads: []domain.Lead{},
			Error: "Failed to load leads.",
		})
		return
	}
	writeJSON(w, http.StatusOK, leadsResponse{Leads: leads})
}

type toggleRequest struct {
	ID        string `json:"id"`
	Contacted bool   `json:"contacted"`
}

func (s *Server) handleToggleContacted(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := s.leads.SetContacted(r.Context(), req.ID, req.Contacted)
	switch {
	case errors.Is(err, domain.ErrMissingLeadID):
		writeError(w, http.StatusBadRequest, "Missing lead ID")
	case errors.Is(err, domain.ErrLeadNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		s.logger.Error("update lead status failed", "lead_id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
