package mapview

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Test window around Pittsburgh.
var (
	testLowerLeft  = orb.Point{-80.1, 40.3}
	testUpperRight = orb.Point{-79.8, 40.6}
)

func newTestView(t *testing.T, opts *Options) *MapView {
	t.Helper()
	v, err := New(testLowerLeft, testUpperRight, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return v
}

// shpRecord is one shapefile record. attrs line up with the file's fields;
// nil leaves a cell blank.
type shpRecord struct {
	parts [][]shp.Point
	attrs []interface{}
}

// writeShapefile writes name.shp, name.shx and name.dbf into dir and returns
// the .shp path.
func writeShapefile(t *testing.T, dir, name string, typ shp.ShapeType, fields []shp.Field, records []shpRecord) string {
	t.Helper()

	base := filepath.Join(dir, name)
	w, err := shp.Create(base+".shp", typ)
	if err != nil {
		t.Fatalf("shp.Create failed: %v", err)
	}
	if len(fields) > 0 {
		if err := w.SetFields(fields); err != nil {
			t.Fatalf("SetFields failed: %v", err)
		}
	}

	for _, r := range records {
		var shape shp.Shape
		switch typ {
		case shp.POLYGON:
			poly := shp.Polygon(*shp.NewPolyLine(r.parts))
			shape = &poly
		case shp.POLYLINE:
			shape = shp.NewPolyLine(r.parts)
		case shp.POINT:
			p := r.parts[0][0]
			shape = &p
		default:
			t.Fatalf("unsupported fixture shape type %v", typ)
		}

		row := int(w.Write(shape))
		for i, v := range r.attrs {
			if v == nil {
				continue
			}
			if err := w.WriteAttribute(row, i, v); err != nil {
				t.Fatalf("WriteAttribute failed: %v", err)
			}
		}
	}
	w.Close()

	// go-shp v0.1.1 names the table "<base>dbf"
	if len(fields) > 0 {
		if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
			t.Fatalf("failed to rename dbf: %v", err)
		}
	}
	return base + ".shp"
}

// zipShapefile packs the .shp, .shx and .dbf next to shpPath into a zip.
func zipShapefile(t *testing.T, shpPath string) string {
	t.Helper()

	base := shpPath[:len(shpPath)-len(".shp")]
	zipPath := base + ".zip"

	out, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	zw := zip.NewWriter(out)
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		in, err := os.Open(base + ext)
		if err != nil {
			t.Fatalf("failed to open %s: %v", base+ext, err)
		}
		f, err := zw.Create(filepath.Base(base + ext))
		if err != nil {
			t.Fatalf("zip create failed: %v", err)
		}
		if _, err := io.Copy(f, in); err != nil {
			t.Fatalf("zip copy failed: %v", err)
		}
		_ = in.Close()
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}
	_ = out.Close()
	return zipPath
}

// cwSquare returns a closed clockwise square, the shapefile outer ring order.
func cwSquare(x, y, size float64) []shp.Point {
	return []shp.Point{
		{X: x, Y: y},
		{X: x, Y: y + size},
		{X: x + size, Y: y + size},
		{X: x + size, Y: y},
		{X: x, Y: y},
	}
}

// ccwSquare returns a closed counter-clockwise square, the shapefile hole order.
func ccwSquare(x, y, size float64) []shp.Point {
	return []shp.Point{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
		{X: x, Y: y},
	}
}

func line(points ...[2]float64) []shp.Point {
	out := make([]shp.Point, len(points))
	for i, p := range points {
		out[i] = shp.Point{X: p[0], Y: p[1]}
	}
	return out
}

// writeRoads writes a polyline shapefile with three roads inside the test
// window: two motorways and one residential street.
func writeRoads(t *testing.T, dir string) string {
	t.Helper()
	fields := []shp.Field{
		shp.StringField("type", 16),
		shp.StringField("name", 32),
		shp.NumberField("lanes", 4),
	}
	return writeShapefile(t, dir, "roads", shp.POLYLINE, fields, []shpRecord{
		{parts: [][]shp.Point{line([2]float64{-80.05, 40.35}, [2]float64{-79.85, 40.55})}, attrs: []interface{}{"motorway", "I-279", 4}},
		{parts: [][]shp.Point{line([2]float64{-80.05, 40.45}, [2]float64{-79.85, 40.45})}, attrs: []interface{}{"motorway", "I-376", 6}},
		{parts: [][]shp.Point{line([2]float64{-79.95, 40.40}, [2]float64{-79.94, 40.41}, [2]float64{-79.93, 40.40})}, attrs: []interface{}{"residential", "Forbes Ave", 2}},
	})
}

func writeGeoJSONFile(t *testing.T, dir, name string, fc *geojson.FeatureCollection) string {
	t.Helper()
	data, err := fc.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func writeFlatGeobufFile(t *testing.T, dir, name string, features []Feature, opts *WriteOptions) string {
	t.Helper()
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	err = WriteFeatures(file, features, opts)
	_ = file.Close()
	if err != nil {
		t.Fatalf("WriteFeatures failed: %v", err)
	}
	return path
}
