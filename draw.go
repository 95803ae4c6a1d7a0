package mapview

import (
	"fmt"
	"image/color"

	"github.com/paulmach/orb"
)

// BaseZOrder is the stacking order of the base map fill.
const BaseZOrder = 1

// Surface is a 2-D vector drawing target. Paths are in the view's planar
// coordinates.
type Surface interface {
	// Fill paints the extent with c beneath every layer of a higher zorder.
	Fill(extent orb.Bound, c color.Color, zorder int) error
	// DrawPaths draws paths with the drawing arguments in style.
	DrawPaths(paths []Path, style Style) error
}

// Draw renders the base map fill followed by every selection, in the order
// the selections were made, onto s. A nil s draws onto a new Canvas sized
// from Options and spanning the padded window. A nil fill uses white.
//
// The surface used is returned so callers can keep drawing on it. Draw does
// not modify the shape store or the selection list.
func (v *MapView) Draw(s Surface, fill color.Color) (Surface, error) {
	if s == nil {
		c, err := NewCanvas(v.width, v.height, v.Extent())
		if err != nil {
			return nil, err
		}
		s = c
	}
	if fill == nil {
		fill = color.White
	}

	if err := s.Fill(v.Extent(), fill, BaseZOrder); err != nil {
		return s, fmt.Errorf("draw base fill: %w", err)
	}

	for i, sel := range v.selections {
		if err := s.DrawPaths(sel.Paths, sel.Style); err != nil {
			return s, fmt.Errorf("draw selection %d: %w", i, err)
		}
	}

	v.logf("mapview: drew %d selections", len(v.selections))
	return s, nil
}
