package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stridehq/stride/internal/domain"
)

// ─── Streak ─────────────────────────────────────────────────────────────────

func (s *Server) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rec, err := s.streak.Get(r.Context(), userID)
	if err != nil {
		log.Printf("[api] get streak: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load streak")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRecordStreak(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rec, err := s.streak.Record(r.Context(), userID, time.Now())
	if err != nil {
		log.Printf("[api] record streak: %v", err)
		writeError(w, http.StatusInternalServerError, "could not record activity")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ─── Freedom Streak ─────────────────────────────────────────────────────────

// freedomResponse bundles the record with the transition flags the UI uses
// for celebratory feedback.
type freedomResponse struct {
	Record domain.FreedomStreakRecord `json:"record"`
	domain.ActionResult
}

func (s *Server) handleGetFreedom(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rec, err := s.freedom.Get(r.Context(), userID, time.Now())
	if err != nil {
		log.Printf("[api] get freedom streak: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load freedom streak")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleFreedomClean(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rec, res, err := s.freedom.MarkCleanToday(r.Context(), userID, time.Now())
	if err != nil {
		log.Printf("[api] mark clean: %v", err)
		writeError(w, http.StatusInternalServerError, "could not record clean day")
		return
	}
	writeJSON(w, http.StatusOK, freedomResponse{Record: rec, ActionResult: res})
}

func (s *Server) handleFreedomBroke(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	rec, res, err := s.freedom.MarkBrokeIt(r.Context(), userID, time.Now())
	if err != nil {
		log.Printf("[api] mark broke: %v", err)
		writeError(w, http.StatusInternalServerError, "could not record slip")
		return
	}
	writeJSON(w, http.StatusOK, freedomResponse{Record: rec, ActionResult: res})
}

// ─── Activity ───────────────────────────────────────────────────────────────

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	logDoc, err := s.activity.Get(r.Context(), userID)
	if err != nil {
		log.Printf("[api] get activity: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load activity log")
		return
	}
	writeJSON(w, http.StatusOK, logDoc)
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	logDoc, err := s.activity.Log(r.Context(), userID, time.Now())
	if err != nil {
		log.Printf("[api] record activity: %v", err)
		writeError(w, http.StatusInternalServerError, "could not record activity")
		return
	}
	writeJSON(w, http.StatusOK, logDoc)
}

// ─── Planner Items ──────────────────────────────────────────────────────────

type addItemRequest struct {
	Kind  domain.ItemKind `json:"kind"`
	Title string          `json:"title"`
	Notes string          `json:"notes,omitempty"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.planner.Add(r.Context(), userID, req.Kind, req.Title, req.Notes)
	switch {
	case errors.Is(err, domain.ErrInvalidKind), errors.Is(err, domain.ErrEmptyTitle):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("[api] add item: %v", err)
		writeError(w, http.StatusInternalServerError, "could not save item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	items, err := s.planner.List(r.Context(), userID)
	if err != nil {
		log.Printf("[api] list items: %v", err)
		writeError(w, http.StatusInternalServerError, "could not list items")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleCompleteItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	itemID := chi.URLParam(r, "itemID")

	item, err := s.planner.Complete(r.Context(), userID, itemID)
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		log.Printf("[api] complete item: %v", err)
		writeError(w, http.StatusInternalServerError, "could not complete item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}
