package preset

// selectionBlend is how far the selection color moves from the background
// toward the foreground.
const selectionBlend = 0.3

// XtermTheme is the theme object the browser terminal consumes.
type XtermTheme struct {
	Background          string `json:"background"`
	Foreground          string `json:"foreground"`
	Cursor              string `json:"cursor"`
	CursorAccent        string `json:"cursorAccent"`
	SelectionBackground string `json:"selectionBackground"`
}

// Xterm derives a terminal theme from p. The palette only carries valid
// colors, so for table entries every field is populated; a malformed custom
// preset falls back to echoing its own fields for the selection.
func (p ColorPreset) Xterm() XtermTheme {
	t := XtermTheme{
		Background:          p.Background,
		Foreground:          p.Foreground,
		Cursor:              p.Foreground,
		CursorAccent:        p.Background,
		SelectionBackground: p.Foreground,
	}
	bg, err := ParseHex(p.Background)
	if err != nil {
		return t
	}
	fg, err := ParseHex(p.Foreground)
	if err != nil {
		return t
	}
	t.Background = formatHex(bg)
	t.Foreground = formatHex(fg)
	t.Cursor = t.Foreground
	t.CursorAccent = t.Background
	t.SelectionBackground = formatHex(bg.BlendRgb(fg, selectionBlend))
	return t
}
