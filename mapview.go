// Package mapview loads vector shape files (ESRI shapefiles, FlatGeobuf,
// GeoJSON), projects them onto a planar map, selects subsets of the loaded
// shapes by attribute and draws those subsets with per-selection styles.
//
// A MapView is built around a fixed geographic window:
//
//	v, err := mapview.New(orb.Point{-80.1, 40.3}, orb.Point{-79.8, 40.6}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := v.Load("roads.shp", true); err != nil {
//	    log.Fatal(err)
//	}
//	v.Select("type", mapview.StringValue("motorway"), mapview.Style{
//	    "edgecolor": mapview.Color("orange"),
//	    "linewidth": mapview.Number(2),
//	})
//	s, err := v.Draw(nil, nil)
//
// The window midpoint and padding arithmetic is plain degree math. It is not
// valid near the poles or across the ±180° meridian and no wraparound or polar
// correction is attempted.
//
// A MapView is not safe for concurrent use.
package mapview

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/paulmach/orb"
)

// Common errors returned by this package.
var (
	ErrInvalidWindow     = errors.New("mapview: invalid geographic window")
	ErrUnknownProjection = errors.New("mapview: unknown projection")
	ErrUnsupportedFormat = errors.New("mapview: unsupported file format")
	ErrNotImplemented    = errors.New("mapview: not implemented")
	ErrNilGeometry       = errors.New("mapview: nil geometry")
	ErrNoIndex           = errors.New("mapview: file has no spatial index")
	ErrInvalidColor      = errors.New("mapview: invalid color")
	ErrInvalidStyle      = errors.New("mapview: invalid style value")
	ErrEmptyStore        = errors.New("mapview: no shapes loaded")
	ErrInvalidCanvas     = errors.New("mapview: invalid canvas size or extent")
)

// Options configures a MapView.
type Options struct {
	Projection    ProjectionKind // Cartographic projection (default: Mercator)
	WidthPadding  float64        // Fraction of the window width added on each side (default: 0.03)
	HeightPadding float64        // Fraction of the window height added on each side (default: 0.04)
	Width         int            // Width in pixels of canvases created by Draw (default: 1024)
	Height        int            // Height in pixels of canvases created by Draw (default: 768)
	Importer      Importer       // External data import backend (default: UnsupportedImporter)
	Logger        *log.Logger    // Diagnostics sink; nil disables logging
}

// DefaultOptions returns the default MapView options.
func DefaultOptions() *Options {
	return &Options{
		Projection:    ProjectionMercator,
		WidthPadding:  0.03,
		HeightPadding: 0.04,
		Width:         1024,
		Height:        768,
		Importer:      UnsupportedImporter{},
	}
}

// MapView projects, stores, selects and draws shapes for one geographic window.
type MapView struct {
	window     Window
	proj       Projection
	importer   Importer
	logger     *log.Logger
	width      int
	height     int
	store      *Store
	selections []Selection
}

// New creates a MapView for the window spanned by the lower-left and
// upper-right (lon, lat) corners. A nil opts uses DefaultOptions.
func New(lowerLeft, upperRight orb.Point, opts *Options) (*MapView, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	for _, f := range []float64{lowerLeft[0], lowerLeft[1], upperRight[0], upperRight[1]} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: non-finite corner", ErrInvalidWindow)
		}
	}
	if lowerLeft[0] >= upperRight[0] || lowerLeft[1] >= upperRight[1] {
		return nil, fmt.Errorf("%w: lower-left %v is not below and left of upper-right %v",
			ErrInvalidWindow, lowerLeft, upperRight)
	}
	if opts.WidthPadding < 0 || opts.HeightPadding < 0 {
		return nil, fmt.Errorf("%w: negative padding", ErrInvalidWindow)
	}

	window := newWindow(lowerLeft, upperRight, opts.WidthPadding, opts.HeightPadding)

	proj, err := newProjection(opts.Projection, window)
	if err != nil {
		return nil, err
	}

	importer := opts.Importer
	if importer == nil {
		importer = UnsupportedImporter{}
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 768
	}

	return &MapView{
		window:   window,
		proj:     proj,
		importer: importer,
		logger:   opts.Logger,
		width:    width,
		height:   height,
		store:    NewStore(),
	}, nil
}

// Window returns the geographic window the view was built for.
func (v *MapView) Window() Window {
	return v.window
}

// Projection returns the projection shared by every coordinate conversion.
func (v *MapView) Projection() Projection {
	return v.proj
}

// Extent returns the padded window in planar coordinates.
func (v *MapView) Extent() orb.Bound {
	return v.window.extent(v.proj)
}

// Len returns the number of shapes in the shape store.
func (v *MapView) Len() int {
	return v.store.Len()
}

// Shapes returns a copy of the loaded shapes in load order.
func (v *MapView) Shapes() []Shape {
	return v.store.Shapes()
}

// Bound returns the geographic bound of every loaded shape.
// The zero bound is returned when nothing is loaded.
func (v *MapView) Bound() orb.Bound {
	return v.store.GeoBound()
}

// Selections returns a copy of the selection list in insertion order.
func (v *MapView) Selections() []Selection {
	out := make([]Selection, len(v.selections))
	copy(out, v.selections)
	return out
}

// ClearSelections empties the selection list. Loaded shapes are untouched.
func (v *MapView) ClearSelections() {
	v.selections = nil
}

// ClearShapes empties the shape store. Selections made earlier keep the
// paths they captured when they were made.
func (v *MapView) ClearShapes() {
	v.store.Reset()
}

// WriteFlatGeobuf exports the geographic geometry and attributes of every
// loaded shape as FlatGeobuf.
func (v *MapView) WriteFlatGeobuf(w io.Writer, opts *WriteOptions) error {
	if v.store.Len() == 0 {
		return ErrEmptyStore
	}
	return WriteFeatures(w, v.store.Features(), opts)
}

func (v *MapView) logf(format string, args ...interface{}) {
	if v.logger != nil {
		v.logger.Printf(format, args...)
	}
}
