package mapview

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  color.RGBA
	}{
		{"white", color.RGBA{255, 255, 255, 255}},
		{"SteelBlue", color.RGBA{70, 130, 180, 255}},
		{"#ff8800", color.RGBA{255, 136, 0, 255}},
		{"#f80", color.RGBA{255, 136, 0, 255}},
		{"#ff880080", color.RGBA{255, 136, 0, 128}},
		{" orange ", color.RGBA{255, 165, 0, 255}},
		{"none", color.RGBA{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if err != nil {
				t.Fatalf("ParseColor failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, input := range []string{"", "notacolor", "#12", "#gggggg", "#ff8800zz"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseColor(input); !errors.Is(err, ErrInvalidColor) {
				t.Errorf("expected ErrInvalidColor, got %v", err)
			}
		})
	}
}

func TestColor_KeepsError(t *testing.T) {
	c := Color("mauvish")
	if !errors.Is(c.Err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", c.Err)
	}

	s := Style{StyleFaceColor: c}
	if _, ok, err := s.Color(StyleFaceColor); !ok || !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected the stored error back, got ok=%v err=%v", ok, err)
	}
}

func TestRGBA(t *testing.T) {
	c := RGBA(color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	if c.RGBA != (color.RGBA{200, 100, 50, 128}) {
		t.Errorf("expected straight components, got %v", c.RGBA)
	}
}

func TestStyle_Accessors(t *testing.T) {
	s := Style{
		StyleColor:     Color("red"),
		StyleLineWidth: Number(1.5),
		StyleZOrder:    Int(3),
		StyleFill:      Flag(false),
		"label":        Text("roads"),
	}

	if c, ok, err := s.Color(StyleColor); err != nil || !ok || c != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Color: got %v, %v, %v", c, ok, err)
	}
	if w, ok, err := s.Number(StyleLineWidth); err != nil || !ok || w != 1.5 {
		t.Errorf("Number: got %v, %v, %v", w, ok, err)
	}
	if z, ok, err := s.Number(StyleZOrder); err != nil || !ok || z != 3 {
		t.Errorf("Number of Int: got %v, %v, %v", z, ok, err)
	}
	if z, ok, err := s.Int(StyleZOrder); err != nil || !ok || z != 3 {
		t.Errorf("Int: got %v, %v, %v", z, ok, err)
	}
	if f, ok, err := s.Flag(StyleFill); err != nil || !ok || f {
		t.Errorf("Flag: got %v, %v, %v", f, ok, err)
	}
	if _, ok, err := s.Number(StyleAlpha); ok || err != nil {
		t.Errorf("missing key: got ok=%v err=%v", ok, err)
	}

	if _, _, err := s.Number("label"); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("expected ErrInvalidStyle for Text as number, got %v", err)
	}
	if _, _, err := s.Color(StyleLineWidth); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("expected ErrInvalidStyle for Number as color, got %v", err)
	}
	if _, _, err := (Style{StyleZOrder: Number(2.5)}).Int(StyleZOrder); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("expected ErrInvalidStyle for fractional zorder, got %v", err)
	}
}

func TestStyle_Clone(t *testing.T) {
	s := Style{StyleLineWidth: Number(1)}
	c := s.Clone()
	c[StyleLineWidth] = Number(2)

	if w, _, _ := s.Number(StyleLineWidth); w != 1 {
		t.Errorf("clone shares storage with original")
	}
	if Style(nil).Clone() != nil {
		t.Error("expected nil clone of nil style")
	}
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("edgecolor=orange, linewidth=2,zorder=5,fill=false,facecolor=#00ff00,label=roads")
	if err != nil {
		t.Fatalf("ParseStyle failed: %v", err)
	}

	if len(s) != 6 {
		t.Errorf("expected 6 keys, got %d", len(s))
	}
	if c, _, _ := s.Color(StyleEdgeColor); c != (color.RGBA{255, 165, 0, 255}) {
		t.Errorf("edgecolor: got %v", c)
	}
	if c, _, _ := s.Color(StyleFaceColor); c != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("facecolor: got %v", c)
	}
	if s[StyleLineWidth] != Number(2) {
		t.Errorf("linewidth: got %#v", s[StyleLineWidth])
	}
	if s[StyleZOrder] != Int(5) {
		t.Errorf("zorder: got %#v", s[StyleZOrder])
	}
	if s[StyleFill] != Flag(false) {
		t.Errorf("fill: got %#v", s[StyleFill])
	}
	if s["label"] != Text("roads") {
		t.Errorf("label: got %#v", s["label"])
	}

	empty, err := ParseStyle("")
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty style, got %v, %v", empty, err)
	}
}

func TestParseStyle_Invalid(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"linewidth", ErrInvalidStyle},
		{"zorder=top", ErrInvalidStyle},
		{"fill=maybe", ErrInvalidStyle},
		{"color=nope", ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if _, err := ParseStyle(tt.input); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
