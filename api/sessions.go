package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tinted-terminal/preset"
	"tinted-terminal/session"
)

func (h *handler) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.manager.List()
	views := make([]session.View, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, s.View())
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Preset *int   `json:"preset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	index := -1
	if req.Preset != nil {
		index = *req.Preset
		if !preset.InRange(index) {
			http.Error(w, "preset index out of range", http.StatusBadRequest)
			return
		}
	}

	s, err := h.manager.Create(req.Name, index)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNameTaken):
			http.Error(w, "session name already in use", http.StatusConflict)
		default:
			h.logger.Error().Err(err).Str("name", req.Name).Msg("create session")
			http.Error(w, "failed to create session", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, s.View())
}

func (h *handler) killSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.manager.Kill(id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to kill session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) setSessionPreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Preset *int `json:"preset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Preset == nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s, err := h.applyPreset(chi.URLParam(r, "id"), *req.Preset)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, preset.ErrOutOfRange):
			http.Error(w, "preset index out of range", http.StatusBadRequest)
		default:
			http.Error(w, "failed to set preset", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// applyPreset re-themes a session and records the choice in preferences.
// A preferences write failure is logged but does not undo the change.
func (h *handler) applyPreset(id string, index int) (*session.Session, error) {
	s, err := h.manager.SetPreset(id, index)
	if err != nil {
		return nil, err
	}
	if err := h.prefs.MarkUsed(index); err != nil {
		h.logger.Warn().Err(err).Int("preset", index).Msg("record recently used preset")
	}
	return s, nil
}
