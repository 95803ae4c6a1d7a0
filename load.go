package mapview

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
)

// Feature is a geographic geometry with its attributes, as read from a
// file or an importer.
type Feature struct {
	Geometry   orb.Geometry
	Attributes Attributes
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// readFeatures reads path according to its extension.
func readFeatures(path string, clip *orb.Bound) ([]Feature, error) {
	switch extension(path) {
	case ".shp", ".zip":
		return readShapefile(path, clip)
	case ".fgb":
		r, err := openFlatGeobuf(path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return r.Features(clip)
	case ".geojson", ".json":
		return readGeoJSON(path, clip)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads the shape file at path, projects its polygon outlines and
// lines, and appends them to the shape store. It returns the number of
// shapes appended.
//
// Supported files are ESRI shapefiles (.shp, or a .zip holding one),
// FlatGeobuf (.fgb, written with a spatial index) and GeoJSON (.geojson,
// .json). With clipToView, records whose bounding box lies outside the
// window given to New are skipped before projection.
//
// Polygons contribute their outer ring, LineStrings their line and
// MultiPolygons the outer ring of each member polygon, each as its own shape
// with the feature's attributes. Other geometry types are skipped without
// error. A file that cannot be opened or decoded leaves the store unchanged.
func (v *MapView) Load(path string, clipToView bool) (int, error) {
	var clip *orb.Bound
	if clipToView {
		b := v.window.ClipBound()
		clip = &b
	}

	features, err := readFeatures(path, clip)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}

	n := v.appendFeatures(path, features)
	v.logf("mapview: loaded %d shapes from %d features in %s", n, len(features), path)
	return n, nil
}

func (v *MapView) appendFeatures(source string, features []Feature) int {
	var shapes []Shape
	for _, f := range features {
		rings, closed := outlines(f.Geometry)
		if rings == nil {
			v.logf("mapview: %s: skipping %s geometry", source, geometryName(f.Geometry))
			continue
		}

		for _, ring := range rings {
			if len(ring) == 0 {
				continue
			}

			var geom orb.Geometry = ring
			if closed {
				geom = orb.Ring(ring)
			}

			shapes = append(shapes, Shape{
				Path:       Path{Points: v.Project(ring), Closed: closed},
				Geometry:   geom,
				Attributes: f.Attributes.Clone(),
				Source:     source,
			})
		}
	}

	v.store.Append(shapes...)
	return len(shapes)
}

// outlines returns the coordinate sequences to draw for a geometry and
// whether they are closed. Unsupported geometries return nil.
func outlines(g orb.Geometry) ([]orb.LineString, bool) {
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return []orb.LineString{}, true
		}
		return []orb.LineString{orb.LineString(g[0])}, true
	case orb.LineString:
		return []orb.LineString{g}, false
	case orb.MultiPolygon:
		rings := make([]orb.LineString, 0, len(g))
		for _, poly := range g {
			if len(poly) > 0 {
				rings = append(rings, orb.LineString(poly[0]))
			}
		}
		return rings, true
	default:
		return nil, false
	}
}

func geometryName(g orb.Geometry) string {
	if g == nil {
		return "null"
	}
	return g.GeoJSONType()
}
