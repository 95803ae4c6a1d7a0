package mapview

import (
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

// fgbGeometryType returns the FlatGeobuf GeometryType of an orb.Geometry.
func fgbGeometryType(geom orb.Geometry) flattypes.GeometryType {
	switch geom.(type) {
	case orb.Point:
		return flattypes.GeometryTypePoint
	case orb.MultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case orb.LineString:
		return flattypes.GeometryTypeLineString
	case orb.MultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case orb.Ring, orb.Polygon:
		return flattypes.GeometryTypePolygon
	case orb.MultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// geometryToFGB converts an orb.Geometry to a FlatGeobuf writer.Geometry.
// Collections and bounds are not written.
func geometryToFGB(geom orb.Geometry, builder *flatbuffers.Builder) *writer.Geometry {
	if geom == nil {
		return nil
	}

	g := writer.NewGeometry(builder)

	switch v := geom.(type) {
	case orb.Point:
		g.SetType(flattypes.GeometryTypePoint)
		g.SetXY([]float64{v[0], v[1]})

	case orb.MultiPoint:
		g.SetType(flattypes.GeometryTypeMultiPoint)
		g.SetXY(pointsToXY(v))

	case orb.LineString:
		g.SetType(flattypes.GeometryTypeLineString)
		g.SetXY(pointsToXY(v))

	case orb.MultiLineString:
		g.SetType(flattypes.GeometryTypeMultiLineString)
		parts := make([][]orb.Point, len(v))
		for i, ls := range v {
			parts[i] = ls
		}
		xy, ends := partsToXYEnds(parts)
		g.SetXY(xy)
		g.SetEnds(ends)

	case orb.Ring:
		g.SetType(flattypes.GeometryTypePolygon)
		g.SetXY(pointsToXY(v))
		g.SetEnds([]uint32{uint32(len(v))})

	case orb.Polygon:
		g.SetType(flattypes.GeometryTypePolygon)
		xy, ends := polygonToXYEnds(v)
		g.SetXY(xy)
		g.SetEnds(ends)

	case orb.MultiPolygon:
		g.SetType(flattypes.GeometryTypeMultiPolygon)
		parts := make([]writer.Geometry, 0, len(v))
		for _, poly := range v {
			pg := writer.NewGeometry(builder)
			pg.SetType(flattypes.GeometryTypePolygon)
			xy, ends := polygonToXYEnds(poly)
			pg.SetXY(xy)
			pg.SetEnds(ends)
			parts = append(parts, *pg)
		}
		g.SetParts(parts)

	default:
		return nil
	}

	return g
}

// geometryFromFGB converts a FlatGeobuf geometry to an orb.Geometry.
// Unknown types return nil.
func geometryFromFGB(fgbGeom *flattypes.Geometry) orb.Geometry {
	if fgbGeom == nil {
		return nil
	}

	switch fgbGeom.Type() {
	case flattypes.GeometryTypePoint:
		if fgbGeom.XyLength() < 2 {
			return nil
		}
		return orb.Point{fgbGeom.Xy(0), fgbGeom.Xy(1)}

	case flattypes.GeometryTypeMultiPoint:
		return orb.MultiPoint(pointsFromXY(fgbGeom, 0, fgbGeom.XyLength()/2))

	case flattypes.GeometryTypeLineString:
		return orb.LineString(pointsFromXY(fgbGeom, 0, fgbGeom.XyLength()/2))

	case flattypes.GeometryTypeMultiLineString:
		parts := partsFromXYEnds(fgbGeom)
		mls := make(orb.MultiLineString, len(parts))
		for i, p := range parts {
			mls[i] = orb.LineString(p)
		}
		return mls

	case flattypes.GeometryTypePolygon:
		return polygonFromXYEnds(fgbGeom)

	case flattypes.GeometryTypeMultiPolygon:
		return multiPolygonFromParts(fgbGeom)

	case flattypes.GeometryTypeGeometryCollection:
		partsLen := fgbGeom.PartsLength()
		coll := make(orb.Collection, 0, partsLen)
		for i := 0; i < partsLen; i++ {
			var part flattypes.Geometry
			if fgbGeom.Parts(&part, i) {
				if g := geometryFromFGB(&part); g != nil {
					coll = append(coll, g)
				}
			}
		}
		return coll

	default:
		return nil
	}
}

// Helper functions for writing

func pointsToXY(points []orb.Point) []float64 {
	xy := make([]float64, 0, len(points)*2)
	for _, p := range points {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

func partsToXYEnds(parts [][]orb.Point) ([]float64, []uint32) {
	total := 0
	for _, part := range parts {
		total += len(part)
	}

	xy := make([]float64, 0, total*2)
	ends := make([]uint32, 0, len(parts))

	cumulative := uint32(0)
	for _, part := range parts {
		for _, p := range part {
			xy = append(xy, p[0], p[1])
		}
		cumulative += uint32(len(part))
		ends = append(ends, cumulative)
	}

	return xy, ends
}

func polygonToXYEnds(poly orb.Polygon) ([]float64, []uint32) {
	parts := make([][]orb.Point, len(poly))
	for i, r := range poly {
		parts[i] = r
	}
	return partsToXYEnds(parts)
}

// Helper functions for reading

// pointsFromXY reads points [from, to) of the interleaved xy array.
func pointsFromXY(fgbGeom *flattypes.Geometry, from, to int) []orb.Point {
	xyLen := fgbGeom.XyLength()
	if to*2 > xyLen {
		to = xyLen / 2
	}
	if from >= to {
		return nil
	}

	points := make([]orb.Point, 0, to-from)
	for i := from; i < to; i++ {
		points = append(points, orb.Point{fgbGeom.Xy(2 * i), fgbGeom.Xy(2*i + 1)})
	}
	return points
}

// partsFromXYEnds splits the xy array at the ends offsets. Without ends the
// whole array is one part.
func partsFromXYEnds(fgbGeom *flattypes.Geometry) [][]orb.Point {
	n := fgbGeom.XyLength() / 2
	endsLen := fgbGeom.EndsLength()
	if n == 0 {
		return nil
	}
	if endsLen == 0 {
		return [][]orb.Point{pointsFromXY(fgbGeom, 0, n)}
	}

	parts := make([][]orb.Point, 0, endsLen)
	start := 0
	for i := 0; i < endsLen; i++ {
		end := int(fgbGeom.Ends(i))
		parts = append(parts, pointsFromXY(fgbGeom, start, end))
		start = end
	}
	return parts
}

func polygonFromXYEnds(fgbGeom *flattypes.Geometry) orb.Polygon {
	parts := partsFromXYEnds(fgbGeom)
	poly := make(orb.Polygon, 0, len(parts))
	for _, p := range parts {
		poly = append(poly, orb.Ring(p))
	}
	return poly
}

func multiPolygonFromParts(fgbGeom *flattypes.Geometry) orb.MultiPolygon {
	partsLen := fgbGeom.PartsLength()
	if partsLen == 0 {
		// Single polygon stored inline
		if poly := polygonFromXYEnds(fgbGeom); len(poly) > 0 {
			return orb.MultiPolygon{poly}
		}
		return orb.MultiPolygon{}
	}

	mp := make(orb.MultiPolygon, 0, partsLen)
	for i := 0; i < partsLen; i++ {
		var part flattypes.Geometry
		if fgbGeom.Parts(&part, i) {
			if poly := polygonFromXYEnds(&part); len(poly) > 0 {
				mp = append(mp, poly)
			}
		}
	}
	return mp
}
