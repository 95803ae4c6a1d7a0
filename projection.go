package mapview

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// ProjectionKind names a cartographic projection.
type ProjectionKind string

// Supported projections.
const (
	ProjectionMercator    ProjectionKind = "merc" // Spherical Mercator, true scale at the equator
	ProjectionCylindrical ProjectionKind = "cyl"  // Equirectangular, planar units are degrees
)

// Window is the geographic area a MapView covers.
type Window struct {
	LowerLeft  orb.Point // (lon, lat) as given
	UpperRight orb.Point // (lon, lat) as given
	Center     orb.Point // Midpoint of the corners
	Padded     orb.Bound // Window grown by the padding fractions, in degrees
}

func newWindow(ll, ur orb.Point, wpad, hpad float64) Window {
	w, h := ur[0]-ll[0], ur[1]-ll[1]

	// Plain degree midpoint; wrong near the poles and across ±180°.
	center := orb.Point{(ll[0] + ur[0]) / 2, (ll[1] + ur[1]) / 2}

	return Window{
		LowerLeft:  ll,
		UpperRight: ur,
		Center:     center,
		Padded: orb.Bound{
			Min: orb.Point{ll[0] - wpad*w, ll[1] - hpad*h},
			Max: orb.Point{ur[0] + wpad*w, ur[1] + hpad*h},
		},
	}
}

// Bound returns the unpadded window.
func (w Window) Bound() orb.Bound {
	return orb.Bound{Min: w.LowerLeft, Max: w.UpperRight}
}

// ClipBound returns the geographic box used to skip records before
// projection. It is the raw window; the padding only widens the drawn extent.
func (w Window) ClipBound() orb.Bound {
	return w.Bound()
}

func (w Window) extent(p Projection) orb.Bound {
	return project.Bound(w.Padded, p.Forward)
}

// Projection converts between geographic (lon, lat) and planar (x, y)
// coordinates for one fixed window.
type Projection interface {
	Kind() ProjectionKind
	Forward(orb.Point) orb.Point
	Inverse(orb.Point) orb.Point
}

func newProjection(kind ProjectionKind, w Window) (Projection, error) {
	switch kind {
	case "", ProjectionMercator:
		return newMercator(w), nil
	case ProjectionCylindrical:
		return newCylindrical(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProjection, kind)
	}
}

// mercator centres orb's spherical Mercator on the window's central meridian
// and moves the padded lower-left corner to the planar origin.
type mercator struct {
	lon0   float64
	origin orb.Point
}

func newMercator(w Window) *mercator {
	m := &mercator{lon0: w.Center[0]}
	m.origin = project.WGS84.ToMercator(orb.Point{w.Padded.Min[0] - m.lon0, w.Padded.Min[1]})
	return m
}

func (m *mercator) Kind() ProjectionKind { return ProjectionMercator }

func (m *mercator) Forward(p orb.Point) orb.Point {
	q := project.WGS84.ToMercator(orb.Point{p[0] - m.lon0, p[1]})
	return orb.Point{q[0] - m.origin[0], q[1] - m.origin[1]}
}

func (m *mercator) Inverse(p orb.Point) orb.Point {
	q := project.Mercator.ToWGS84(orb.Point{p[0] + m.origin[0], p[1] + m.origin[1]})
	return orb.Point{q[0] + m.lon0, q[1]}
}

type cylindrical struct {
	origin orb.Point
}

func newCylindrical(w Window) *cylindrical {
	return &cylindrical{origin: w.Padded.Min}
}

func (c *cylindrical) Kind() ProjectionKind { return ProjectionCylindrical }

func (c *cylindrical) Forward(p orb.Point) orb.Point {
	return orb.Point{p[0] - c.origin[0], p[1] - c.origin[1]}
}

func (c *cylindrical) Inverse(p orb.Point) orb.Point {
	return orb.Point{p[0] + c.origin[0], p[1] + c.origin[1]}
}

// Project converts (lon, lat) points to planar points. The result has the
// same length and order as coords; coords is not modified.
func (v *MapView) Project(coords orb.LineString) orb.LineString {
	return project.LineString(coords.Clone(), v.proj.Forward)
}

// Unproject converts planar points back to (lon, lat).
func (v *MapView) Unproject(coords orb.LineString) orb.LineString {
	return project.LineString(coords.Clone(), v.proj.Inverse)
}
