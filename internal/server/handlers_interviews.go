package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/types"
)

// handleListSlots lists upcoming slots, optionally for a single date.
func (s *Server) handleListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := s.interviews.ListSlots(r.Context(), caller(r), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// handleBookSlot books a slot for one of the caller's applications.
func (s *Server) handleBookSlot(w http.ResponseWriter, r *http.Request) {
	var req types.BookSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	slot, err := s.interviews.Book(r.Context(), caller(r), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func (s *Server) handleCheckBooked(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("application_id"))
	if err != nil {
		writeError(w, &types.ValidationError{Field: "application_id", Message: "must be a valid UUID"})
		return
	}

	resp, err := s.interviews.CheckBooked(r.Context(), caller(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAvailability(w http.ResponseWriter, r *http.Request) {
	windows, err := s.interviews.ListAvailability(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, windows)
}

// handleCreateAvailability declares a window and generates its slots.
func (s *Server) handleCreateAvailability(w http.ResponseWriter, r *http.Request) {
	var req types.CreateAvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	window, err := s.interviews.CreateAvailability(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, window)
}

// handleUpdateSlot moves an open slot.
func (s *Server) handleUpdateSlot(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req types.UpdateSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	slot, err := s.interviews.EditSlot(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func (s *Server) handleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.interviews.DeleteSlot(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
