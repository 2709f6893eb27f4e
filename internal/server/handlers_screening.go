package server

import (
	"net/http"

	"github.com/jonathan/jobboard/internal/types"
)

// noteResponse is a saved note with the aggregates it produced.
type noteResponse struct {
	Note             *types.ScreeningNote   `json:"note"`
	TotalScore       *int                   `json:"total_score"`
	InterviewProcess types.InterviewProcess `json:"interview_process"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	notes, err := s.screening.ListNotes(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// handleUpsertNote records the note for a stage, replacing any earlier one.
// It answers 201 when the stage had no note yet.
func (s *Server) handleUpsertNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req types.UpsertNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.screening.UpsertNote(r.Context(), id, caller(r).Email, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, noteResponse{
		Note:             result.Note,
		TotalScore:       result.TotalScore,
		InterviewProcess: result.InterviewProcess,
	})
}

func (s *Server) handleScreeningSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := s.screening.Summary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleSuggestScore returns an advisory score for a stage checklist.
func (s *Server) handleSuggestScore(w http.ResponseWriter, r *http.Request) {
	var req types.SuggestScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	suggestion, err := s.screening.Suggest(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

func (s *Server) handleRubric(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.screening.Rubric())
}
