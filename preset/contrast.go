package preset

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Rating is the WCAG conformance level a contrast ratio reaches for text.
type Rating string

const (
	RatingAAA     Rating = "AAA"
	RatingAA      Rating = "AA"
	RatingAALarge Rating = "AA-large"
	RatingFail    Rating = "fail"
)

// Rate maps a contrast ratio to its WCAG level.
func Rate(ratio float64) Rating {
	switch {
	case ratio >= 7:
		return RatingAAA
	case ratio >= 4.5:
		return RatingAA
	case ratio >= 3:
		return RatingAALarge
	default:
		return RatingFail
	}
}

// Luminance returns the WCAG relative luminance of c.
func Luminance(c colorful.Color) float64 {
	r, g, b := c.Clamped().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns the WCAG contrast ratio between two hex colors, in
// [1, 21]. Argument order does not matter.
func ContrastRatio(bg, fg string) (float64, error) {
	b, err := ParseHex(bg)
	if err != nil {
		return 0, fmt.Errorf("background: %w", err)
	}
	f, err := ParseHex(fg)
	if err != nil {
		return 0, fmt.Errorf("foreground: %w", err)
	}
	lb, lf := Luminance(b), Luminance(f)
	if lb < lf {
		lb, lf = lf, lb
	}
	return (lb + 0.05) / (lf + 0.05), nil
}

// Contrast returns the contrast ratio of p's foreground on its background.
func (p ColorPreset) Contrast() (float64, error) {
	return ContrastRatio(p.Background, p.Foreground)
}
