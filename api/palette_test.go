package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinted-terminal/preset"
)

type paletteEntry struct {
	Index      int     `json:"index"`
	Background string  `json:"background"`
	Foreground string  `json:"foreground"`
	Contrast   float64 `json:"contrast"`
	Rating     string  `json:"rating"`
}

func TestListPalette(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/palette", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries := decode[[]paletteEntry](t, resp)
	require.Len(t, entries, preset.Count)
	for i, e := range entries {
		assert.Equal(t, i, e.Index)
		assert.True(t, preset.IsHex(e.Background))
		assert.True(t, preset.IsHex(e.Foreground))
		assert.GreaterOrEqual(t, e.Contrast, 1.0)
		assert.NotEmpty(t, e.Rating)
	}
	assert.Equal(t, "#FCF7F8", entries[0].Background)
	assert.Equal(t, "#3D3522", entries[10].Foreground)
}

func TestGetPreset(t *testing.T) {
	env := newTestEnv(t)
	e := decode[paletteEntry](t, env.do(t, http.MethodGet, "/api/palette/9", ""))
	assert.Equal(t, 9, e.Index)
	assert.Equal(t, "#FFFFFF", e.Background)
	assert.Equal(t, "#003153", e.Foreground)
	assert.Equal(t, string(preset.RatingAAA), e.Rating)
}

func TestGetPresetErrors(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/palette/abc", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/palette/11", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/palette/-1", "").StatusCode)
}

func TestGetXtermTheme(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/palette/0/xterm", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	theme := decode[preset.XtermTheme](t, resp)
	p, _ := preset.At(0)
	assert.Equal(t, p.Xterm(), theme)
}

func TestUsePreset(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/palette/3/use", "").StatusCode)

	resp := env.do(t, http.MethodPost, "/api/palette/7/use", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[map[string][]int](t, resp)
	assert.Equal(t, []int{7, 3}, result["recentlyUsed"])
}

func TestUsePresetOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/palette/42/use", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, env.prefs.Get().RecentlyUsed)
}

func TestPreferencesRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	got := decode[preset.Preferences](t, env.do(t, http.MethodGet, "/api/preferences", ""))
	assert.Equal(t, 0, got.Default)
	assert.Empty(t, got.RecentlyUsed)

	resp := env.do(t, http.MethodPut, "/api/preferences", `{"default":5,"recentlyUsed":[5,5,99,2]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, preset.Preferences{Default: 5, RecentlyUsed: []int{5, 2}}, decode[preset.Preferences](t, resp))

	got = decode[preset.Preferences](t, env.do(t, http.MethodGet, "/api/preferences", ""))
	assert.Equal(t, 5, got.Default)
}

func TestPutPreferencesBadRequests(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, "/api/preferences", "not-json").StatusCode)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPut, "/api/preferences", `{"default":11}`).StatusCode)
	assert.Equal(t, 0, env.prefs.Get().Default)
}
