// Package color parses CSS color literals and renders them back with a
// modified alpha channel, in the notation family the literal was written in.
package color

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// Family groups color notations by the output function used to render them
type Family int

const (
	// FamilyOther covers notations with no rgb/hsl equivalent (hwb, lab, ...).
	// They render as rgb.
	FamilyOther Family = iota
	// FamilyRGB covers hex, named colors, rgb() and rgba()
	FamilyRGB
	// FamilyHSL covers hsl() and hsla()
	FamilyHSL
)

func (f Family) String() string {
	switch f {
	case FamilyRGB:
		return "rgb"
	case FamilyHSL:
		return "hsl"
	}
	return "other"
}

// ErrInvalidColor is returned for literals that are not a recognised color
var ErrInvalidColor = errors.New("invalid color")

// csscolorparser accepts hex digits without a leading '#', CSS does not
var bareHex = regexp.MustCompile(`^[0-9a-fA-F]{3,8}$`)

// Color is a parsed color literal
type Color struct {
	rgba   csscolorparser.Color
	family Family
}

// Parse parses a color literal such as "#fed", "papayawhip",
// "rgba(120, 0, 200, 0.5)" or "hsl(204, 30%, 70%)"
func Parse(literal string) (Color, error) {
	s := strings.TrimSpace(literal)
	if s == "" || bareHex.MatchString(s) {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, literal)
	}

	parsed, err := csscolorparser.Parse(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, literal, err)
	}

	return Color{rgba: parsed, family: familyOf(s)}, nil
}

func familyOf(literal string) Family {
	lower := strings.ToLower(literal)
	open := strings.IndexByte(lower, '(')
	if open < 0 {
		// hex or named
		return FamilyRGB
	}
	switch strings.TrimSpace(lower[:open]) {
	case "rgb", "rgba":
		return FamilyRGB
	case "hsl", "hsla":
		return FamilyHSL
	}
	return FamilyOther
}

// Family returns the notation family the literal was written in
func (c Color) Family() Family {
	return c.family
}

// Alpha returns the alpha channel in the range [0, 1]
func (c Color) Alpha() float64 {
	return clamp(c.rgba.A)
}

// IsFullyTransparent reports whether the parsed alpha channel is zero,
// however the color was written
func (c Color) IsFullyTransparent() bool {
	return c.Alpha() == 0
}

// WithAlpha returns a copy of c with its alpha channel replaced
func (c Color) WithAlpha(alpha float64) Color {
	c.rgba.A = clamp(alpha)
	return c
}

// Transparent renders c with zero alpha in its own notation family
func (c Color) Transparent() string {
	return c.WithAlpha(0).String()
}

// CanonicalTransparent renders c with zero alpha in rgb notation, so two
// colors can be compared regardless of how they were written
func (c Color) CanonicalTransparent() string {
	return c.WithAlpha(0).RGBString()
}

// String renders c in its own notation family
func (c Color) String() string {
	return c.Format(c.family)
}

// Format renders c in the given notation family
func (c Color) Format(family Family) string {
	if family == FamilyHSL {
		return c.HSLString()
	}
	return c.RGBString()
}

// RGBString renders "rgb(r, g, b)" or "rgba(r, g, b, a)" when not opaque
func (c Color) RGBString() string {
	r := channel(c.rgba.R)
	g := channel(c.rgba.G)
	b := channel(c.rgba.B)
	if a := c.Alpha(); a < 1 {
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, formatNumber(a, 3))
	}
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// HSLString renders "hsl(h, s%, l%)" or "hsla(h, s%, l%, a)" when not opaque
func (c Color) HSLString() string {
	h, s, l := colorful.Color{
		R: clamp(c.rgba.R),
		G: clamp(c.rgba.G),
		B: clamp(c.rgba.B),
	}.Hsl()
	if h >= 359.995 {
		h = 0
	}
	hue := formatNumber(h, 2)
	sat := formatNumber(s*100, 2)
	light := formatNumber(l*100, 2)
	if a := c.Alpha(); a < 1 {
		return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)", hue, sat, light, formatNumber(a, 3))
	}
	return fmt.Sprintf("hsl(%s, %s%%, %s%%)", hue, sat, light)
}

func channel(v float64) int {
	return int(math.Round(clamp(v) * 255))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func formatNumber(v float64, decimals int) string {
	scale := math.Pow(10, float64(decimals))
	rounded := math.Round(v*scale) / scale
	if rounded == 0 {
		// avoid "-0"
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
