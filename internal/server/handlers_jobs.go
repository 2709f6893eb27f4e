package server

import (
	"encoding/json"
	"io"
	"net/http"
)

// importResponse lists the slugs touched by a job import.
type importResponse struct {
	Created []string `json:"created"`
	Updated []string `json:"updated"`
}

// handleListJobs returns the public job catalogue.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.listings.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.listings.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleImportJobs upserts a JSON array of jobs validated against the jobs schema.
func (s *Server) handleImportJobs(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, &ErrBadRequest{Message: "Failed to read request body"})
		return
	}
	if !json.Valid(body) {
		writeError(w, &ErrBadRequest{Message: "Request body is not valid JSON"})
		return
	}

	summary, err := s.listings.Import(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{
		Created: nonNil(summary.Created),
		Updated: nonNil(summary.Updated),
	})
}

func nonNil(slugs []string) []string {
	if slugs == nil {
		return []string{}
	}
	return slugs
}
