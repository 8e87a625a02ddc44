package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"tinted-terminal/metrics"
	"tinted-terminal/preset"
	"tinted-terminal/session"
)

func RegisterRoutes(manager *session.Manager, prefs *preset.Manager, staticFS fs.FS, logger zerolog.Logger) http.Handler {
	logger = logger.With().Str("component", "api").Logger()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	h := &handler{manager: manager, prefs: prefs, logger: logger}

	// Palette
	r.Get("/api/palette", h.listPalette)
	r.Get("/api/palette/{index}", h.getPreset)
	r.Get("/api/palette/{index}/xterm", h.getXtermTheme)
	r.Post("/api/palette/{index}/use", h.usePreset)

	// Preferences
	r.Get("/api/preferences", h.getPreferences)
	r.Put("/api/preferences", h.putPreferences)

	// Sessions
	r.Get("/api/sessions", h.listSessions)
	r.Post("/api/sessions", h.createSession)
	r.Delete("/api/sessions/{id}", h.killSession)
	r.Put("/api/sessions/{id}/preset", h.setSessionPreset)

	// WebSocket
	r.Get("/api/sessions/{id}/ws", h.handleWS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	// Static sub-FS: strip the "static/" prefix present in the embed.FS.
	// fs.Sub never fails for a valid name, so probe index.html to tell an
	// already-rooted FS (tests, dev) from the embedded one.
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		staticSub = staticFS
	} else if _, statErr := fs.Stat(staticSub, "index.html"); statErr != nil {
		staticSub = staticFS
	}

	// Pages are read directly: http.FileServer redirects paths ending in
	// index.html to "./".
	r.Get("/", serveFile(staticSub, "index.html"))
	r.Get("/session/{id}", serveFile(staticSub, "session.html"))

	fileServer := http.FileServer(http.FS(staticSub))
	r.Get("/css/*", fileServer.ServeHTTP)
	r.Get("/js/*", fileServer.ServeHTTP)

	return r
}

// serveFile returns a handler that reads a single file from fsys and sends it.
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

type handler struct {
	manager *session.Manager
	prefs   *preset.Manager
	logger  zerolog.Logger
}
