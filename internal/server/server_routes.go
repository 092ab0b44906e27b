package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/brk3/habiterm/internal/logger"
	"github.com/brk3/habiterm/internal/storage"
	"github.com/brk3/habiterm/pkg/habit"
	"github.com/brk3/habiterm/pkg/versioninfo"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// decodeBody reports frequency validation failures as themselves and every
// other decode failure as "invalid JSON".
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || habit.IsValidationError(err) {
		return err
	}
	return errors.New("invalid JSON")
}

func writeError(w http.ResponseWriter, code int, msg string) {
	if err := writeJSON(w, code, ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}

// writeServiceError maps validation errors to 400, missing habits to 404 and
// everything else to 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case habit.IsValidationError(err):
		logger.Debug("Rejected invalid habit", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "habit not found")
	default:
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
	}
}

func (s *Server) getVersionInfo(w http.ResponseWriter, _ *http.Request) {
	if err := writeJSON(w, http.StatusOK, versioninfo.Get()); err != nil {
		logger.Error("Failed to serialize version info response", "error", err)
	}
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := s.svc.ListHabits(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if habits == nil {
		habits = []habit.Habit{}
	}
	activeHabits.Set(float64(len(habits)))
	logger.Debug("Listed habits successfully", "count", len(habits))
	if err := writeJSON(w, http.StatusOK, HabitListResponse{Habits: habits}); err != nil {
		logger.Error("Failed to serialize habit list response", "error", err)
	}
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var d habit.Draft
	if err := decodeBody(r, &d); err != nil {
		logger.Warn("Invalid create habit request", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h, err := s.svc.CreateHabit(r.Context(), d)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	activeHabits.Inc()
	if err := writeJSON(w, http.StatusCreated, h); err != nil {
		logger.Error("Failed to serialize create habit response", "habit_id", h.ID, "error", err)
	}
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	h, err := s.svc.GetHabit(r.Context(), habitID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, h); err != nil {
		logger.Error("Failed to serialize get habit response", "habit_id", habitID, "error", err)
	}
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	var e habit.Edit
	if err := decodeBody(r, &e); err != nil {
		logger.Warn("Invalid update habit request", "habit_id", habitID, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h, err := s.svc.UpdateHabit(r.Context(), habitID, e)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, h); err != nil {
		logger.Error("Failed to serialize update habit response", "habit_id", habitID, "error", err)
	}
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	if err := s.svc.DeleteHabit(r.Context(), habitID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	activeHabits.Dec()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) completeHabit(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habit_id")
	var req CompleteRequest
	// An empty body records a completion without a duration.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Invalid JSON in complete habit request", "habit_id", habitID, "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	h, rec, err := s.svc.CompleteHabit(r.Context(), habitID, req.DurationSeconds)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	completionsTotal.Inc()
	if err := writeJSON(w, http.StatusCreated, CompleteResponse{Habit: h, Completion: rec}); err != nil {
		logger.Error("Failed to serialize completion response", "habit_id", habitID, "error", err)
	}
}

func (s *Server) getToday(w http.ResponseWriter, r *http.Request) {
	today, err := s.svc.Today(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	habitsDueToday.Set(float64(today.Progress.Total))
	if err := writeJSON(w, http.StatusOK, today); err != nil {
		logger.Error("Failed to serialize today response", "error", err)
	}
}

func (s *Server) getWeek(w http.ResponseWriter, r *http.Request) {
	week, err := s.svc.Week(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, week); err != nil {
		logger.Error("Failed to serialize week response", "error", err)
	}
}
