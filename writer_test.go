package mapview

import (
	"bytes"
	"errors"
	"testing"

	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb"
)

func pointFeatures(points ...orb.Point) []Feature {
	features := make([]Feature, len(points))
	for i, p := range points {
		features[i] = Feature{Geometry: p}
	}
	return features
}

func TestWriteFeatures_Magic(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFeatures(&buf, pointFeatures(orb.Point{1, 2}, orb.Point{3, 4}, orb.Point{5, 6}), nil)
	if err != nil {
		t.Fatalf("WriteFeatures failed: %v", err)
	}

	// Check magic bytes
	data := buf.Bytes()
	if len(data) < 8 {
		t.Fatal("output too short")
	}

	expectedMagic := []byte{0x66, 0x67, 0x62, 0x03, 0x66, 0x67, 0x62, 0x00}
	for i, b := range expectedMagic {
		if data[i] != b {
			t.Errorf("magic byte %d: expected 0x%02x, got 0x%02x", i, b, data[i])
		}
	}
}

func TestWriteFeatures_Empty(t *testing.T) {
	err := WriteFeatures(&bytes.Buffer{}, nil, nil)
	if !errors.Is(err, ErrNilGeometry) {
		t.Errorf("expected ErrNilGeometry, got %v", err)
	}
}

func TestWriteFeatures_GeometryType(t *testing.T) {
	tests := []struct {
		name     string
		features []Feature
		expected flattypes.GeometryType
	}{
		{"points", pointFeatures(orb.Point{1, 2}, orb.Point{3, 4}), flattypes.GeometryTypePoint},
		{"rings and polygons", []Feature{
			{Geometry: orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
			{Geometry: orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}},
		}, flattypes.GeometryTypePolygon},
		{"mixed", []Feature{
			{Geometry: orb.Point{1, 2}},
			{Geometry: orb.LineString{{0, 0}, {1, 1}}},
		}, flattypes.GeometryTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteFeatures(&buf, tt.features, nil); err != nil {
				t.Fatalf("WriteFeatures failed: %v", err)
			}

			fgb, err := flatgeobuf.NewWithData(buf.Bytes())
			if err != nil {
				t.Fatalf("NewWithData failed: %v", err)
			}
			if got := fgb.Header().GeometryType(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestWriteFeatures_SkipsUnencodable(t *testing.T) {
	features := []Feature{
		{Geometry: orb.Point{1, 2}},
		{Geometry: orb.Collection{orb.Point{3, 4}}},
		{Geometry: orb.Point{5, 6}},
	}

	var buf bytes.Buffer
	if err := WriteFeatures(&buf, features, &WriteOptions{IncludeIndex: true}); err != nil {
		t.Fatalf("WriteFeatures failed: %v", err)
	}

	fgb, err := flatgeobuf.NewWithData(buf.Bytes())
	if err != nil {
		t.Fatalf("NewWithData failed: %v", err)
	}
	if got := fgb.Header().FeaturesCount(); got != 2 {
		t.Errorf("expected 2 features, got %d", got)
	}
}

func TestWriteFeatures_WithOptions(t *testing.T) {
	opts := &WriteOptions{
		Name:         "test_layer",
		Description:  "A test layer",
		IncludeIndex: true,
		CRS:          WGS84(),
	}

	var buf bytes.Buffer
	if err := WriteFeatures(&buf, pointFeatures(orb.Point{1, 2}), opts); err != nil {
		t.Fatalf("WriteFeatures failed: %v", err)
	}

	fgb, err := flatgeobuf.NewWithData(buf.Bytes())
	if err != nil {
		t.Fatalf("NewWithData failed: %v", err)
	}
	h := fgb.Header()
	if string(h.Name()) != "test_layer" {
		t.Errorf("expected name 'test_layer', got %q", h.Name())
	}

	crs := h.Crs(nil)
	if crs == nil {
		t.Fatal("expected a CRS")
	}
	if crs.Code() != 4326 || string(crs.Org()) != "EPSG" {
		t.Errorf("expected EPSG:4326, got %s:%d", crs.Org(), crs.Code())
	}
}

func TestDefaultWriteOptions(t *testing.T) {
	opts := DefaultWriteOptions()
	if !opts.IncludeIndex {
		t.Error("expected the index to be written by default")
	}
	if opts.CRS == nil || opts.CRS.Code != 4326 {
		t.Errorf("expected WGS84 by default, got %+v", opts.CRS)
	}
}
