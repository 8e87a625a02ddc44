package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tinted-terminal/metrics"
	"tinted-terminal/preset"
)

type paletteEntry struct {
	Index      int           `json:"index"`
	Background string        `json:"background"`
	Foreground string        `json:"foreground"`
	Contrast   float64       `json:"contrast"`
	Rating     preset.Rating `json:"rating"`
}

func newPaletteEntry(index int, p preset.ColorPreset) paletteEntry {
	e := paletteEntry{Index: index, Background: p.Background, Foreground: p.Foreground}
	if ratio, err := p.Contrast(); err == nil {
		e.Contrast = math.Round(ratio*100) / 100
		e.Rating = preset.Rate(ratio)
	}
	return e
}

func (h *handler) listPalette(w http.ResponseWriter, r *http.Request) {
	all := preset.All()
	entries := make([]paletteEntry, 0, len(all))
	for i, p := range all {
		entries = append(entries, newPaletteEntry(i, p))
	}
	writeJSON(w, http.StatusOK, entries)
}

// presetFromURL resolves the {index} parameter, writing the error response
// itself when it fails.
func presetFromURL(w http.ResponseWriter, r *http.Request) (int, preset.ColorPreset, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "preset index must be an integer", http.StatusBadRequest)
		return 0, preset.ColorPreset{}, false
	}
	p, err := preset.At(index)
	if err != nil {
		http.Error(w, "preset not found", http.StatusNotFound)
		return 0, preset.ColorPreset{}, false
	}
	return index, p, true
}

func (h *handler) getPreset(w http.ResponseWriter, r *http.Request) {
	index, p, ok := presetFromURL(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newPaletteEntry(index, p))
}

func (h *handler) getXtermTheme(w http.ResponseWriter, r *http.Request) {
	_, p, ok := presetFromURL(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.Xterm())
}

func (h *handler) usePreset(w http.ResponseWriter, r *http.Request) {
	index, _, ok := presetFromURL(w, r)
	if !ok {
		return
	}
	if err := h.prefs.MarkUsed(index); err != nil {
		h.logger.Error().Err(err).Int("preset", index).Msg("mark preset used")
		http.Error(w, "failed to update recently used", http.StatusInternalServerError)
		return
	}
	metrics.PresetSelections.WithLabelValues(metrics.PresetLabel(index)).Inc()
	writeJSON(w, http.StatusOK, map[string][]int{"recentlyUsed": h.prefs.Get().RecentlyUsed})
}

func (h *handler) getPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.prefs.Get())
}

func (h *handler) putPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs preset.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.prefs.Save(prefs); err != nil {
		if errors.Is(err, preset.ErrOutOfRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Msg("save preferences")
		http.Error(w, "failed to save preferences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.prefs.Get())
}
