package mapview

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Style keys understood by Canvas. Other keys are carried through untouched
// for custom surfaces.
const (
	StyleFaceColor = "facecolor" // Fill color of closed paths
	StyleEdgeColor = "edgecolor" // Stroke color
	StyleColor     = "color"     // Sets both face and edge color
	StyleLineWidth = "linewidth" // Stroke width in pixels
	StyleAlpha     = "alpha"     // Opacity in [0, 1] applied to both colors
	StyleZOrder    = "zorder"    // Stacking order; higher draws later
	StyleFill      = "fill"      // Whether closed paths are filled
)

// StyleValue is one of Color, Number, Int, Flag or Text.
type StyleValue interface {
	styleValue()
}

// ColorValue is a style color. RGBA holds straight (non-premultiplied)
// components. Err is set when the color could not be parsed and surfaces
// reject such values when drawing.
type ColorValue struct {
	Name string
	RGBA color.RGBA
	Err  error
}

// Number is a numeric style value.
type Number float64

// Int is an integer style value.
type Int int

// Flag is a boolean style value.
type Flag bool

// Text is a free-form style value.
type Text string

func (ColorValue) styleValue() {}
func (Number) styleValue()     {}
func (Int) styleValue()        {}
func (Flag) styleValue()       {}
func (Text) styleValue()       {}

// Color returns a ColorValue for a color name ("white", "steelblue") or a
// hex string ("#ff8800", "#f80", "#ff880080").
func Color(s string) ColorValue {
	c, err := ParseColor(s)
	if err != nil {
		return ColorValue{Name: s, Err: err}
	}
	return ColorValue{Name: s, RGBA: c}
}

// RGBA returns a ColorValue for an existing color.
func RGBA(c color.Color) ColorValue {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ColorValue{RGBA: color.RGBA{R: n.R, G: n.G, B: n.B, A: n.A}}
}

// ParseColor parses a named or hex color.
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.RGBA{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	if name == "none" || name == "transparent" {
		return color.RGBA{}, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if !strings.HasPrefix(name, "#") {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	hex := name[1:]
	alpha := uint8(0xff)
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		alpha = uint8(a)
		hex = hex[:6]
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// Style holds the drawing arguments of one selection. Values are forwarded
// unmodified to the surface.
type Style map[string]StyleValue

// Clone returns a shallow copy of s.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Color returns the color stored at key.
func (s Style) Color(key string) (color.RGBA, bool, error) {
	v, ok := s[key]
	if !ok {
		return color.RGBA{}, false, nil
	}
	c, ok := v.(ColorValue)
	if !ok {
		return color.RGBA{}, true, fmt.Errorf("%w: %s is %T, want color", ErrInvalidStyle, key, v)
	}
	if c.Err != nil {
		return color.RGBA{}, true, c.Err
	}
	return c.RGBA, true, nil
}

// Number returns the number stored at key. Int values are accepted.
func (s Style) Number(key string) (float64, bool, error) {
	v, ok := s[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case Number:
		return float64(n), true, nil
	case Int:
		return float64(n), true, nil
	default:
		return 0, true, fmt.Errorf("%w: %s is %T, want number", ErrInvalidStyle, key, v)
	}
}

// Int returns the integer stored at key.
func (s Style) Int(key string) (int, bool, error) {
	v, ok := s[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case Int:
		return int(n), true, nil
	case Number:
		if float64(n) != float64(int(n)) {
			return 0, true, fmt.Errorf("%w: %s is %v, want integer", ErrInvalidStyle, key, float64(n))
		}
		return int(n), true, nil
	default:
		return 0, true, fmt.Errorf("%w: %s is %T, want integer", ErrInvalidStyle, key, v)
	}
}

// Flag returns the boolean stored at key.
func (s Style) Flag(key string) (bool, bool, error) {
	v, ok := s[key]
	if !ok {
		return false, false, nil
	}
	f, ok := v.(Flag)
	if !ok {
		return false, true, fmt.Errorf("%w: %s is %T, want flag", ErrInvalidStyle, key, v)
	}
	return bool(f), true, nil
}

// ParseStyle parses "key=value,key=value" pairs. Keys ending in "color" and
// the key "color" parse as colors, "zorder" as Int, "fill" as Flag, numeric
// values as Number and anything else as Text.
func ParseStyle(s string) (Style, error) {
	style := Style{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not key=value", ErrInvalidStyle, pair)
		}
		k, val = strings.TrimSpace(k), strings.TrimSpace(val)

		switch {
		case strings.HasSuffix(k, "color"):
			c := Color(val)
			if c.Err != nil {
				return nil, c.Err
			}
			style[k] = c
		case k == StyleZOrder:
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("%w: zorder %q", ErrInvalidStyle, val)
			}
			style[k] = Int(n)
		case k == StyleFill:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return nil, fmt.Errorf("%w: fill %q", ErrInvalidStyle, val)
			}
			style[k] = Flag(b)
		default:
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				style[k] = Number(f)
			} else {
				style[k] = Text(val)
			}
		}
	}
	return style, nil
}
