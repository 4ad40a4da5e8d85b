package theme

import (
	"strings"
	"testing"
)

func TestLerp(t *testing.T) {
	a := MustHex("#7C3AED")
	b := MustHex("#06B6D4")

	tests := []struct {
		name string
		a, b Color
		t    float64
		want Color
	}{
		{"start", a, b, 0, a},
		{"end", a, b, 1, b},
		{"same color", a, a, 0.37, a},
		{"midpoint rounds half up", MustHex("#000000"), MustHex("#ffffff"), 0.5, MustHex("#808080")},
		{"quarter", MustHex("#000000"), MustHex("#640000"), 0.25, MustHex("#190000")},
		{"descending", MustHex("#ffffff"), MustHex("#000000"), 0.5, MustHex("#808080")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lerp(tt.a, tt.b, tt.t)
			if got != tt.want {
				t.Errorf("Lerp(%s, %s, %v) = %s, want %s", tt.a, tt.b, tt.t, got, tt.want)
			}
		})
	}
}

func TestLerp_IdentityForAllT(t *testing.T) {
	c := MustHex("#13579b")
	for i := 0; i <= 20; i++ {
		step := float64(i) / 20
		if got := Lerp(c, c, step); got != c {
			t.Fatalf("Lerp(c, c, %v) = %s, want %s", step, got, c)
		}
	}
}

func TestDarken(t *testing.T) {
	c := MustHex("#ff8000")

	if got := Darken(c, 1.0); got != c {
		t.Errorf("Darken(c, 1) = %s, want %s", got, c)
	}
	if got := Darken(c, 0.0).Hex(); got != "#000000" {
		t.Errorf("Darken(c, 0) = %s, want #000000", got)
	}
	if got := Darken(c, 0.5).Hex(); got != "#804000" {
		t.Errorf("Darken(c, 0.5) = %s, want #804000", got)
	}
	if got := Darken(c, 2.0).Hex(); got != "#ffff00" {
		t.Errorf("Darken(c, 2) = %s, want clamped #ffff00", got)
	}
}

func TestStableHash(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 5381},
		{"bug", 193487683},
		{"a", 177670},
	}
	for _, tt := range tests {
		if got := StableHash(tt.in); got != tt.want {
			t.Errorf("StableHash(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if StableHash("bug") != StableHash("bug") {
		t.Error("StableHash must be deterministic")
	}
}

func TestStableHash_Overflow(t *testing.T) {
	// Long inputs wrap int32 several times; astral runes hash as two
	// UTF-16 surrogate units.
	tests := []struct {
		in   string
		want uint32
	}{
		{"a-very-long-tag-name-overflow", 977038002},
		{"😀x", 255536346},
		{strings.Repeat("overflow-", 40), 245066669},
	}
	for _, tt := range tests {
		if got := StableHash(tt.in); got != tt.want {
			t.Errorf("StableHash(%.20q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTagColor(t *testing.T) {
	th := Default()

	first := th.TagColor("bug")
	second := th.TagColor("bug")
	if first != second {
		t.Errorf("TagColor(bug) changed: %s then %s", first, second)
	}

	palette := th.Palette()
	if len(palette) < MinPaletteSize {
		t.Fatalf("palette has %d entries, want at least %d", len(palette), MinPaletteSize)
	}
	want := palette[int(StableHash("bug")%uint32(len(palette)))]
	if first != want {
		t.Errorf("TagColor(bug) = %s, want %s", first, want)
	}
}

func TestPaneGradient(t *testing.T) {
	th := Default()

	start, end := th.PaneGradient(PaneBoard, true)
	if start != MustHex("#7C3AED") || end != MustHex("#06B6D4") {
		t.Errorf("active board gradient = %s..%s", start, end)
	}

	dimStart, dimEnd := th.PaneGradient(PaneBoard, false)
	if dimStart != Darken(start, 0.5) || dimEnd != Darken(end, 0.5) {
		t.Errorf("inactive board gradient = %s..%s, want darkened stops", dimStart, dimEnd)
	}

	agentStart, _ := th.PaneGradient(PaneAgents, true)
	if agentStart == start {
		t.Error("agents pane should own a different gradient than the board")
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		i, n int
		want float64
	}{
		{0, 1, 0},
		{0, 0, 0},
		{0, 5, 0},
		{4, 5, 1},
		{2, 5, 0.5},
	}
	for _, tt := range tests {
		if got := Position(tt.i, tt.n); got != tt.want {
			t.Errorf("Position(%d, %d) = %v, want %v", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestNew_Overrides(t *testing.T) {
	_, err := New(Overrides{Palette: []string{"#000000"}})
	if err == nil {
		t.Fatal("expected error for a palette shorter than the minimum")
	}

	_, err = New(Overrides{Palette: []string{"#000000", "#111111", "#222222", "#333333", "#444444", "#555555", "#666666", "nope"}})
	if err == nil {
		t.Fatal("expected error for an invalid palette color")
	}

	th, err := New(Overrides{Gradients: map[PaneKind][2]string{PaneForm: {"#000000", "#ffffff"}}})
	if err != nil {
		t.Fatal(err)
	}
	start, end := th.PaneGradient(PaneForm, true)
	if start.Hex() != "#000000" || end.Hex() != "#ffffff" {
		t.Errorf("form gradient = %s..%s, want override", start, end)
	}
}

func TestGradientText_Deterministic(t *testing.T) {
	g := Default().Gradient(PaneBoard, true)
	if GradientText("TODO", g, true) != GradientText("TODO", g, true) {
		t.Error("GradientText must render identically for identical input")
	}
	if GradientText("", g, false) != "" {
		t.Error("empty label should render empty")
	}
}
