// Package theme derives every color the dashboard paints: gradients, pane
// accents, semantic status colors and stable per-tag colors.
//
// A Theme is built once at start-up and never mutated afterwards, so the same
// inputs always render the same colors.
package theme

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Black is the zero color.
var Black = Color{}

// ParseHex parses a "#rrggbb" string.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// MustHex is ParseHex for compile-time constants.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as lowercase "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

func (c Color) String() string { return c.Hex() }

// Lipgloss returns the color as a lipgloss terminal color.
func (c Color) Lipgloss() lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// Lerp interpolates each channel from a to b. Callers clamp t to [0,1].
func Lerp(a, b Color, t float64) Color {
	return Color{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	if a == b {
		return a
	}
	v := float64(a) + (float64(b)-float64(a))*t
	return clampChannel(math.Round(v))
}

// Darken scales each channel by factor. factor 1 is identity, 0 is black.
func Darken(c Color, factor float64) Color {
	return Color{
		R: clampChannel(math.Round(float64(c.R) * factor)),
		G: clampChannel(math.Round(float64(c.G) * factor)),
		B: clampChannel(math.Round(float64(c.B) * factor)),
	}
}

func clampChannel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// StableHash is the djb2 multiplicative hash over UTF-16 code units,
// truncated to int32 after every step. The result is its absolute value.
func StableHash(s string) uint32 {
	var h int32 = 5381
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*33 + int32(unit)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// Position is the fractional offset of index i in a label of n characters.
// A label of length one (or less) always sits at 0.
func Position(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	t := float64(i) / float64(n-1)
	return math.Max(0, math.Min(1, t))
}

// Gradient is a pair of color stops.
type Gradient struct {
	Start Color
	End   Color
}

// At returns the gradient color at t.
func (g Gradient) At(t float64) Color {
	return Lerp(g.Start, g.End, t)
}

// Darken darkens both stops.
func (g Gradient) Darken(factor float64) Gradient {
	return Gradient{Start: Darken(g.Start, factor), End: Darken(g.End, factor)}
}

// GradientText renders label with one foreground color per rune.
func GradientText(label string, g Gradient, bold bool) string {
	runes := []rune(label)
	var b strings.Builder
	for i, r := range runes {
		style := lipgloss.NewStyle().
			Foreground(g.At(Position(i, len(runes))).Lipgloss()).
			Bold(bold)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// PaneKind identifies a region that owns a gradient.
type PaneKind int

const (
	PaneBoard PaneKind = iota
	PaneAgents
	PaneDetail
	PaneForm
)

func (k PaneKind) String() string {
	switch k {
	case PaneAgents:
		return "agents"
	case PaneDetail:
		return "detail"
	case PaneForm:
		return "form"
	default:
		return "board"
	}
}

// ParsePaneKind maps a config key to a PaneKind.
func ParsePaneKind(s string) (PaneKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "board":
		return PaneBoard, true
	case "agents":
		return PaneAgents, true
	case "detail":
		return PaneDetail, true
	case "form":
		return PaneForm, true
	}
	return 0, false
}

// inactiveFactor dims the gradient of an unfocused pane.
const inactiveFactor = 0.5

// Theme holds the immutable palette and semantic colors.
type Theme struct {
	palette   []Color
	gradients map[PaneKind]Gradient

	Success Color
	Error   Color
	Warning Color
	Dim     Color
	Accent  Color
	Text    Color
	Muted   Color
}

// Palette returns a copy of the tag palette.
func (t *Theme) Palette() []Color {
	out := make([]Color, len(t.palette))
	copy(out, t.palette)
	return out
}

// TagColor returns the palette entry for tag. The same tag always maps to
// the same color.
func (t *Theme) TagColor(tag string) Color {
	return t.palette[int(StableHash(tag)%uint32(len(t.palette)))]
}

// PaneGradient returns the gradient stops for a pane.
func (t *Theme) PaneGradient(kind PaneKind, active bool) (Color, Color) {
	g := t.Gradient(kind, active)
	return g.Start, g.End
}

// Gradient is PaneGradient as a Gradient value.
func (t *Theme) Gradient(kind PaneKind, active bool) Gradient {
	g, ok := t.gradients[kind]
	if !ok {
		g = t.gradients[PaneBoard]
	}
	if !active {
		return g.Darken(inactiveFactor)
	}
	return g
}

// Tokyo Night inspired defaults.
var (
	defaultPalette = []string{
		"#f7768e", "#ff9e64", "#e0af68", "#9ece6a",
		"#73daca", "#2ac3de", "#7aa2f7", "#bb9af7",
		"#c0caf5", "#b4f9f8",
	}

	defaultGradients = map[PaneKind][2]string{
		PaneBoard:  {"#7C3AED", "#06B6D4"},
		PaneAgents: {"#10B981", "#06B6D4"},
		PaneDetail: {"#F59E0B", "#EF4444"},
		PaneForm:   {"#06B6D4", "#7C3AED"},
	}
)

// MinPaletteSize is the smallest palette New accepts.
const MinPaletteSize = 8

// Overrides replaces parts of the default theme. Empty fields keep defaults.
type Overrides struct {
	Palette   []string
	Gradients map[PaneKind][2]string
}

// New builds a theme from overrides.
func New(o Overrides) (*Theme, error) {
	t := &Theme{
		gradients: make(map[PaneKind]Gradient, len(defaultGradients)),
		Success:   MustHex("#10B981"),
		Error:     MustHex("#EF4444"),
		Warning:   MustHex("#F59E0B"),
		Dim:       MustHex("#6B7280"),
		Accent:    MustHex("#7C3AED"),
		Text:      MustHex("#F9FAFB"),
		Muted:     MustHex("#9CA3AF"),
	}

	palette := defaultPalette
	if len(o.Palette) > 0 {
		if len(o.Palette) < MinPaletteSize {
			return nil, fmt.Errorf("palette needs at least %d colors, got %d", MinPaletteSize, len(o.Palette))
		}
		palette = o.Palette
	}
	for _, s := range palette {
		c, err := ParseHex(s)
		if err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
		t.palette = append(t.palette, c)
	}

	for kind, stops := range defaultGradients {
		if custom, ok := o.Gradients[kind]; ok {
			stops = custom
		}
		start, err := ParseHex(stops[0])
		if err != nil {
			return nil, fmt.Errorf("%s gradient: %w", kind, err)
		}
		end, err := ParseHex(stops[1])
		if err != nil {
			return nil, fmt.Errorf("%s gradient: %w", kind, err)
		}
		t.gradients[kind] = Gradient{Start: start, End: end}
	}

	return t, nil
}

var (
	defaultOnce  sync.Once
	defaultTheme *Theme
)

// Default returns the shared built-in theme.
func Default() *Theme {
	defaultOnce.Do(func() {
		t, err := New(Overrides{})
		if err != nil {
			panic(err)
		}
		defaultTheme = t
	})
	return defaultTheme
}
