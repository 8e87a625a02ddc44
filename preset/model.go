package preset

import (
	"errors"
	"fmt"
)

// Count is the number of presets in the palette.
const Count = 11

// ColorPreset is a background/foreground pair, both as #RRGGBB strings.
type ColorPreset struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

var (
	ErrOutOfRange = errors.New("preset index out of range")
	ErrInvalidHex = errors.New("invalid hex color")
)

// table is read-only after init. Positions are part of the public contract:
// sessions and stored preferences refer to presets by index.
var table = [Count]ColorPreset{
	{Background: "#FCF7F8", Foreground: "#A31621"}, // 0
	{Background: "#D3F6DB", Foreground: "#626267"}, // 1
	{Background: "#F6BD60", Foreground: "#4F000B"}, // 2
	{Background: "#8DAB7F", Foreground: "#1E2019"}, // 3
	{Background: "#ECCE8E", Foreground: "#270722"}, // 4
	{Background: "#47682C", Foreground: "#1B2F33"}, // 5
	{Background: "#FDFDFF", Foreground: "#393D3F"}, // 6
	{Background: "#FFFBFF", Foreground: "#ED6A5A"}, // 7
	{Background: "#EFBDEB", Foreground: "#5E2BFF"}, // 8
	{Background: "#FFFFFF", Foreground: "#003153"}, // 9
	{Background: "#87A330", Foreground: "#3D3522"}, // 10
}

// All returns the palette by value.
func All() [Count]ColorPreset {
	return table
}

// Presets returns the palette as a freshly allocated slice.
func Presets() []ColorPreset {
	out := make([]ColorPreset, Count)
	copy(out, table[:])
	return out
}

// At returns the preset at index.
func At(index int) (ColorPreset, error) {
	if !InRange(index) {
		return ColorPreset{}, fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	return table[index], nil
}

// InRange reports whether index addresses a palette entry.
func InRange(index int) bool {
	return index >= 0 && index < Count
}
