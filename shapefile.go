package mapview

import (
	"fmt"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// shapeReader is implemented by both shp.Reader and shp.ZipReader.
type shapeReader interface {
	Next() bool
	Shape() (int, shp.Shape)
	Attribute(n int) string
	Fields() []shp.Field
	Err() error
	Close() error
}

func openShapefile(path string) (shapeReader, error) {
	if strings.EqualFold(extension(path), ".zip") {
		zr, err := shp.OpenZip(path)
		if err != nil {
			return nil, err
		}
		return zr, nil
	}

	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// readShapefile reads the records of an ESRI shapefile (.shp with its .dbf,
// or a .zip holding one shapefile). With a clip box, records whose bounding
// box misses it are skipped before their attributes are read.
func readShapefile(path string, clip *orb.Bound) ([]Feature, error) {
	r, err := openShapefile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	fields := r.Fields()

	var features []Feature
	for r.Next() {
		_, shape := r.Shape()
		if shape == nil {
			continue
		}

		if clip != nil && !clip.Intersects(boxToBound(shape.BBox())) {
			continue
		}

		attrs := make(Attributes, len(fields))
		for i, f := range fields {
			attrs[f.String()] = dbfValue(f, r.Attribute(i))
		}

		features = append(features, Feature{
			Geometry:   shapeToGeometry(shape),
			Attributes: attrs,
		})
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile %s: %w", path, err)
	}
	return features, nil
}

func boxToBound(b shp.Box) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinX, b.MinY},
		Max: orb.Point{b.MaxX, b.MaxY},
	}
}

// shapeToGeometry converts a shapefile record to orb. Null shapes and
// multipatches return nil.
func shapeToGeometry(s shp.Shape) orb.Geometry {
	switch v := s.(type) {
	case *shp.Point:
		return orb.Point{v.X, v.Y}
	case *shp.PointZ:
		return orb.Point{v.X, v.Y}
	case *shp.PointM:
		return orb.Point{v.X, v.Y}
	case *shp.MultiPoint:
		return multiPointOf(v.Points)
	case *shp.MultiPointZ:
		return multiPointOf(v.Points)
	case *shp.MultiPointM:
		return multiPointOf(v.Points)
	case *shp.PolyLine:
		return linesOf(v.Parts, v.Points)
	case *shp.PolyLineZ:
		return linesOf(v.Parts, v.Points)
	case *shp.PolyLineM:
		return linesOf(v.Parts, v.Points)
	case *shp.Polygon:
		return polygonsOf(v.Parts, v.Points)
	case *shp.PolygonZ:
		return polygonsOf(v.Parts, v.Points)
	case *shp.PolygonM:
		return polygonsOf(v.Parts, v.Points)
	default:
		return nil
	}
}

func multiPointOf(points []shp.Point) orb.MultiPoint {
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = orb.Point{p.X, p.Y}
	}
	return mp
}

// splitParts cuts the flat point list at the part offsets.
func splitParts(parts []int32, points []shp.Point) [][]orb.Point {
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start > end || int(end) > len(points) {
			continue
		}
		part := make([]orb.Point, 0, end-start)
		for _, p := range points[start:end] {
			part = append(part, orb.Point{p.X, p.Y})
		}
		out = append(out, part)
	}
	return out
}

// linesOf returns a LineString for single-part records and a
// MultiLineString otherwise.
func linesOf(parts []int32, points []shp.Point) orb.Geometry {
	split := splitParts(parts, points)
	if len(split) == 1 {
		return orb.LineString(split[0])
	}
	mls := make(orb.MultiLineString, len(split))
	for i, p := range split {
		mls[i] = orb.LineString(p)
	}
	return mls
}

// polygonsOf groups rings into polygons. Shapefile outer rings run
// clockwise and holes counter-clockwise; each clockwise ring starts a new
// polygon. A record with several outer rings becomes a MultiPolygon.
func polygonsOf(parts []int32, points []shp.Point) orb.Geometry {
	var mp orb.MultiPolygon
	for _, p := range splitParts(parts, points) {
		ring := orb.Ring(p)
		if len(mp) == 0 || ring.Orientation() == orb.CW {
			mp = append(mp, orb.Polygon{ring})
			continue
		}
		last := len(mp) - 1
		mp[last] = append(mp[last], ring)
	}

	switch len(mp) {
	case 0:
		return nil
	case 1:
		return mp[0]
	default:
		return mp
	}
}

// dbfValue converts a DBF cell to a Value using the field type.
// Blank cells are null.
func dbfValue(f shp.Field, raw string) Value {
	s := strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	if s == "" {
		return NullValue()
	}

	switch f.Fieldtype {
	case 'N', 'F':
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Overflow markers such as "****"
			return NullValue()
		}
		return NumberValue(n)
	case 'L':
		switch s {
		case "T", "t", "Y", "y":
			return BoolValue(true)
		case "F", "f", "N", "n":
			return BoolValue(false)
		default:
			return NullValue()
		}
	default:
		return StringValue(s)
	}
}
