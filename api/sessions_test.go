package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinted-terminal/api"
	"tinted-terminal/preset"
	"tinted-terminal/session"
)

type testEnv struct {
	srv   *httptest.Server
	mgr   *session.Manager
	prefs *preset.Manager
}

func newTestEnv(t *testing.T, opts ...session.Option) *testEnv {
	t.Helper()
	mgr := session.NewManager(append([]session.Option{session.WithSpawnFunc(session.MockSpawnFunc)}, opts...)...)
	prefs, err := preset.NewManager(filepath.Join(t.TempDir(), "preferences.json"), zerolog.Nop())
	require.NoError(t, err)
	staticFS := fstest.MapFS{
		"index.html":   {Data: []byte("<html>index</html>")},
		"session.html": {Data: []byte("<html>session</html>")},
	}
	srv := httptest.NewServer(api.RegisterRoutes(mgr, prefs, staticFS, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, mgr: mgr, prefs: prefs}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestListSessionsEmpty(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.Empty(t, decode[[]session.View](t, resp))
}

func TestCreateSession201(t *testing.T) {
	env := newTestEnv(t, session.WithDefaultPreset(6))
	resp := env.do(t, http.MethodPost, "/api/sessions", `{"name":"my-session"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	v := decode[session.View](t, resp)
	assert.Equal(t, "my-session", v.Name)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, 6, v.Preset)
	assert.Equal(t, "#FDFDFF", v.Colors.Background)
}

func TestCreateSessionWithPreset(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/sessions", `{"name":"zero","preset":0}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	v := decode[session.View](t, resp)
	assert.Equal(t, 0, v.Preset)
	assert.Equal(t, preset.ColorPreset{Background: "#FCF7F8", Foreground: "#A31621"}, v.Colors)
}

func TestCreateSessionBadRequests(t *testing.T) {
	env := newTestEnv(t)
	for _, body := range []string{
		"not-json",
		`{"name":""}`,
		`{"name":"x","preset":11}`,
		`{"name":"x","preset":-1}`,
	} {
		resp := env.do(t, http.MethodPost, "/api/sessions", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %s", body)
	}
	assert.Empty(t, env.mgr.List())
}

func TestCreateSessionConflict(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/sessions", `{"name":"dupe"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/api/sessions", `{"name":"dupe"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestKillSession204(t *testing.T) {
	env := newTestEnv(t)
	v := decode[session.View](t, env.do(t, http.MethodPost, "/api/sessions", `{"name":"to-kill"}`))

	resp := env.do(t, http.MethodDelete, "/api/sessions/"+v.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, ok := env.mgr.Get(v.ID)
	assert.False(t, ok)
}

func TestKillSessionNotFound(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodDelete, "/api/sessions/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListSessionsAfterCreate(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/sessions", `{"name":"s1","preset":1}`)
	env.do(t, http.MethodPost, "/api/sessions", `{"name":"s2","preset":2}`)

	views := decode[[]session.View](t, env.do(t, http.MethodGet, "/api/sessions", ""))
	require.Len(t, views, 2)
	assert.Equal(t, "s1", views[0].Name)
	assert.Equal(t, 2, views[1].Preset)
}

func TestSetSessionPreset(t *testing.T) {
	env := newTestEnv(t)
	v := decode[session.View](t, env.do(t, http.MethodPost, "/api/sessions", `{"name":"retheme"}`))

	resp := env.do(t, http.MethodPut, "/api/sessions/"+v.ID+"/preset", `{"preset":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[session.View](t, resp)
	assert.Equal(t, 10, got.Preset)
	assert.Equal(t, "#87A330", got.Colors.Background)
	assert.Equal(t, []int{10}, env.prefs.Get().RecentlyUsed)
}

func TestSetSessionPresetErrors(t *testing.T) {
	env := newTestEnv(t)
	v := decode[session.View](t, env.do(t, http.MethodPost, "/api/sessions", `{"name":"retheme"}`))

	tests := []struct {
		path string
		body string
		want int
	}{
		{"/api/sessions/" + v.ID + "/preset", `{"preset":11}`, http.StatusBadRequest},
		{"/api/sessions/" + v.ID + "/preset", `{}`, http.StatusBadRequest},
		{"/api/sessions/" + v.ID + "/preset", `nope`, http.StatusBadRequest},
		{"/api/sessions/missing/preset", `{"preset":1}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		resp := env.do(t, http.MethodPut, tt.path, tt.body)
		assert.Equal(t, tt.want, resp.StatusCode, "%s %s", tt.path, tt.body)
	}
	assert.Empty(t, env.prefs.Get().RecentlyUsed)
}

func TestStaticPagesAndHealth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	resp = env.do(t, http.MethodGet, "/session/abc", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
