package mapview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sort"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
)

// Defaults used by Canvas for keys missing from a Style.
const (
	DefaultLineWidth = 1.0
	DefaultZOrder    = 2
)

// DefaultColor is the face and edge color of paths drawn without one.
var DefaultColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// Canvas is a raster Surface backed by gg. Layers are recorded as they are
// drawn and rasterized in zorder when the image is requested; layers with
// the same zorder keep their drawing order.
//
// The planar extent is scaled uniformly to fit the canvas and centered, with
// y pointing up.
type Canvas struct {
	width, height int
	extent        orb.Bound
	layers        []layer
}

type layer struct {
	zorder int
	paint  func(dc *gg.Context)
}

// paintStyle holds resolved drawing arguments.
type paintStyle struct {
	face, edge color.NRGBA
	width      float64
	fill       bool
	zorder     int
}

// NewCanvas creates a width x height canvas showing extent.
func NewCanvas(width, height int, extent orb.Bound) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, width, height)
	}
	if extent.Right() <= extent.Left() || extent.Top() <= extent.Bottom() {
		return nil, fmt.Errorf("%w: empty extent %v", ErrInvalidCanvas, extent)
	}
	return &Canvas{width: width, height: height, extent: extent}, nil
}

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Extent returns the planar area shown by the canvas.
func (c *Canvas) Extent() orb.Bound {
	return c.extent
}

// Layers returns the zorder of every recorded layer in drawing order.
func (c *Canvas) Layers() []int {
	out := make([]int, len(c.layers))
	for i, l := range c.sorted() {
		out[i] = l.zorder
	}
	return out
}

// Fill implements Surface.
func (c *Canvas) Fill(extent orb.Bound, col color.Color, zorder int) error {
	if col == nil {
		return fmt.Errorf("%w: nil fill color", ErrInvalidColor)
	}

	x0, y0 := c.pixel(orb.Point{extent.Left(), extent.Top()})
	x1, y1 := c.pixel(orb.Point{extent.Right(), extent.Bottom()})

	c.layers = append(c.layers, layer{
		zorder: zorder,
		paint: func(dc *gg.Context) {
			dc.SetColor(col)
			dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
			dc.Fill()
		},
	})
	return nil
}

// DrawPaths implements Surface. Closed paths are filled with the face color
// unless fill is false, and every path is stroked with the edge color when
// the line width is positive.
func (c *Canvas) DrawPaths(paths []Path, style Style) error {
	ps, err := resolveStyle(style)
	if err != nil {
		return err
	}

	pixels := make([][][2]float64, 0, len(paths))
	closed := make([]bool, 0, len(paths))
	for _, p := range paths {
		if len(p.Points) == 0 {
			continue
		}
		pts := make([][2]float64, len(p.Points))
		for i, pt := range p.Points {
			x, y := c.pixel(pt)
			pts[i] = [2]float64{x, y}
		}
		pixels = append(pixels, pts)
		closed = append(closed, p.Closed)
	}

	c.layers = append(c.layers, layer{
		zorder: ps.zorder,
		paint: func(dc *gg.Context) {
			dc.SetLineWidth(ps.width)
			dc.SetLineJoinRound()
			for i, pts := range pixels {
				dc.MoveTo(pts[0][0], pts[0][1])
				for _, pt := range pts[1:] {
					dc.LineTo(pt[0], pt[1])
				}
				if closed[i] {
					dc.ClosePath()
					if ps.fill {
						dc.SetColor(ps.face)
						dc.FillPreserve()
					}
				}
				if ps.width > 0 {
					dc.SetColor(ps.edge)
					dc.Stroke()
				} else {
					dc.ClearPath()
				}
			}
		},
	})
	return nil
}

// Image rasterizes every layer onto a new image.
func (c *Canvas) Image() image.Image {
	return c.render().Image()
}

// SavePNG rasterizes the canvas and writes it to path as PNG.
func (c *Canvas) SavePNG(path string) error {
	return c.render().SavePNG(path)
}

// EncodePNG rasterizes the canvas and writes it to w as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.render().EncodePNG(w)
}

func (c *Canvas) render() *gg.Context {
	dc := gg.NewContext(c.width, c.height)
	for _, l := range c.sorted() {
		dc.Push()
		l.paint(dc)
		dc.Pop()
	}
	return dc
}

func (c *Canvas) sorted() []layer {
	out := make([]layer, len(c.layers))
	copy(out, c.layers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].zorder < out[j].zorder
	})
	return out
}

// pixel maps a planar point to canvas pixels.
func (c *Canvas) pixel(p orb.Point) (float64, float64) {
	dx := c.extent.Right() - c.extent.Left()
	dy := c.extent.Top() - c.extent.Bottom()

	scale := float64(c.width) / dx
	if s := float64(c.height) / dy; s < scale {
		scale = s
	}
	offX := (float64(c.width) - dx*scale) / 2
	offY := (float64(c.height) - dy*scale) / 2

	x := offX + (p[0]-c.extent.Left())*scale
	y := float64(c.height) - offY - (p[1]-c.extent.Bottom())*scale
	return x, y
}

func resolveStyle(s Style) (paintStyle, error) {
	ps := paintStyle{
		face:   straight(DefaultColor),
		edge:   straight(DefaultColor),
		width:  DefaultLineWidth,
		fill:   true,
		zorder: DefaultZOrder,
	}

	if c, ok, err := s.Color(StyleColor); err != nil {
		return ps, err
	} else if ok {
		ps.face, ps.edge = straight(c), straight(c)
	}
	if c, ok, err := s.Color(StyleFaceColor); err != nil {
		return ps, err
	} else if ok {
		ps.face = straight(c)
	}
	if c, ok, err := s.Color(StyleEdgeColor); err != nil {
		return ps, err
	} else if ok {
		ps.edge = straight(c)
	}

	if w, ok, err := s.Number(StyleLineWidth); err != nil {
		return ps, err
	} else if ok {
		if w < 0 {
			return ps, fmt.Errorf("%w: negative linewidth %v", ErrInvalidStyle, w)
		}
		ps.width = w
	}

	if a, ok, err := s.Number(StyleAlpha); err != nil {
		return ps, err
	} else if ok {
		if a < 0 || a > 1 {
			return ps, fmt.Errorf("%w: alpha %v outside [0, 1]", ErrInvalidStyle, a)
		}
		ps.face.A = uint8(float64(ps.face.A)*a + 0.5)
		ps.edge.A = uint8(float64(ps.edge.A)*a + 0.5)
	}

	if z, ok, err := s.Int(StyleZOrder); err != nil {
		return ps, err
	} else if ok {
		ps.zorder = z
	}

	if f, ok, err := s.Flag(StyleFill); err != nil {
		return ps, err
	} else if ok {
		ps.fill = f
	}

	return ps, nil
}

func straight(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
