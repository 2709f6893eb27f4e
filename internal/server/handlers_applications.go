package server

import (
	"net/http"

	"github.com/jonathan/jobboard/internal/applications"
	"github.com/jonathan/jobboard/internal/types"
)

// handleSubmitApplication records an application for the authenticated applicant.
func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	app, err := s.applications.Submit(r.Context(), caller(r), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// handleMyApplications lists the caller's applications with score-free notes.
func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.applications.Mine(r.Context(), caller(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// handleListApplications serves the filtered admin review list.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	filter, err := applications.ParseFilter(r.URL.Query(), s.interviews.Location())
	if err != nil {
		writeError(w, err)
		return
	}

	apps, err := s.applications.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	app, err := s.applications.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// handleOverview returns application counts per job.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	entries, err := s.applications.Overview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetDecision(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	decision, err := s.applications.GetDecision(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

// handleDecide sets the interview process and/or final result.
func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req types.DecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	decision, err := s.applications.Decide(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}
