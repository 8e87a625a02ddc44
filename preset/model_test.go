package preset_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinted-terminal/preset"
)

func TestPaletteHasElevenEntries(t *testing.T) {
	assert.Equal(t, 11, preset.Count)
	assert.Len(t, preset.All(), 11)
	assert.Len(t, preset.Presets(), 11)
}

func TestPaletteEntriesAreHex(t *testing.T) {
	for i, p := range preset.All() {
		assert.Regexp(t, `^#[0-9A-Fa-f]{6}$`, p.Background, "preset %d background", i)
		assert.Regexp(t, `^#[0-9A-Fa-f]{6}$`, p.Foreground, "preset %d foreground", i)
	}
	require.NoError(t, preset.Validate(preset.Presets()))
}

func TestPaletteLiterals(t *testing.T) {
	first, err := preset.At(0)
	require.NoError(t, err)
	assert.Equal(t, preset.ColorPreset{Background: "#FCF7F8", Foreground: "#A31621"}, first)

	last, err := preset.At(10)
	require.NoError(t, err)
	assert.Equal(t, preset.ColorPreset{Background: "#87A330", Foreground: "#3D3522"}, last)

	all := preset.All()
	assert.Equal(t, preset.ColorPreset{Background: "#FFFFFF", Foreground: "#003153"}, all[9])
}

func TestAtOutOfRange(t *testing.T) {
	for _, idx := range []int{-1, 11, 1000} {
		_, err := preset.At(idx)
		assert.ErrorIs(t, err, preset.ErrOutOfRange, "index %d", idx)
		assert.False(t, preset.InRange(idx))
	}
}

func TestPaletteCopiesDoNotLeak(t *testing.T) {
	arr := preset.All()
	arr[0].Background = "#000000"

	s := preset.Presets()
	s[1].Foreground = "#000000"

	p0, _ := preset.At(0)
	p1, _ := preset.At(1)
	assert.Equal(t, "#FCF7F8", p0.Background)
	assert.Equal(t, "#626267", p1.Foreground)
}

func TestPaletteStableAcrossReads(t *testing.T) {
	want := preset.All()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, preset.All())
			assert.Equal(t, want[:], preset.Presets())
		}()
	}
	wg.Wait()
}
