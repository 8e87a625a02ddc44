package preset

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHex reports whether s is a #RRGGBB color. Shorthand (#RGB) and alpha
// forms are rejected.
func IsHex(s string) bool {
	return hexPattern.MatchString(s)
}

// ParseHex decodes a strict #RRGGBB string.
func ParseHex(s string) (colorful.Color, error) {
	if !IsHex(s) {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidHex, s, err)
	}
	return c, nil
}

// formatHex renders c the way the palette table spells colors.
func formatHex(c colorful.Color) string {
	return strings.ToUpper(c.Clamped().Hex())
}

// Validate checks both fields of p.
func (p ColorPreset) Validate() error {
	if !IsHex(p.Background) {
		return fmt.Errorf("background: %w: %q", ErrInvalidHex, p.Background)
	}
	if !IsHex(p.Foreground) {
		return fmt.Errorf("foreground: %w: %q", ErrInvalidHex, p.Foreground)
	}
	return nil
}

// Validate checks every preset and reports all failures, each tagged with
// its index.
func Validate(presets []ColorPreset) error {
	var errs []error
	for i, p := range presets {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("preset %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
