package mapview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestReadGeoJSON_FeatureCollection(t *testing.T) {
	fc := geojson.NewFeatureCollection()

	park := geojson.NewFeature(orb.Polygon{{{-80.0, 40.4}, {-79.9, 40.4}, {-79.9, 40.5}, {-80.0, 40.4}}})
	park.Properties["name"] = "Schenley Park"
	park.Properties["acres"] = 456
	fc.Append(park)

	fc.Append(geojson.NewFeature(orb.LineString{{-80.0, 40.4}, {-79.9, 40.5}}))

	nogeom := geojson.NewFeature(nil)
	fc.Append(nogeom)

	path := writeGeoJSONFile(t, t.TempDir(), "parks.geojson", fc)

	features, err := readGeoJSON(path, nil)
	if err != nil {
		t.Fatalf("readGeoJSON failed: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(features))
	}

	if v, _ := features[0].Attributes.Get("name"); !v.Equal(StringValue("Schenley Park")) {
		t.Errorf("expected name Schenley Park, got %v", v)
	}
	if v, _ := features[0].Attributes.Get("acres"); !v.Equal(NumberValue(456)) {
		t.Errorf("expected acres 456, got %v", v)
	}
	if _, ok := features[1].Geometry.(orb.LineString); !ok {
		t.Errorf("expected LineString, got %T", features[1].Geometry)
	}
}

func TestReadGeoJSON_SingleFeature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "river.json")
	data := `{"type":"Feature","properties":{"name":"Monongahela"},` +
		`"geometry":{"type":"LineString","coordinates":[[-80.0,40.43],[-79.9,40.40]]}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	features, err := readGeoJSON(path, nil)
	if err != nil {
		t.Fatalf("readGeoJSON failed: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}
	if v, _ := features[0].Attributes.Get("name"); !v.Equal(StringValue("Monongahela")) {
		t.Errorf("expected name Monongahela, got %v", v)
	}
}

func TestReadGeoJSON_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.geojson")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := readGeoJSON(path, nil); err == nil {
		t.Error("expected error for invalid GeoJSON")
	}
}

func TestReadGeoJSON_Clip(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{-79.95, 40.45}))
	fc.Append(geojson.NewFeature(orb.Point{-75.16, 39.95}))
	path := writeGeoJSONFile(t, t.TempDir(), "points.geojson", fc)

	clip := orb.Bound{Min: testLowerLeft, Max: testUpperRight}
	features, err := readGeoJSON(path, &clip)
	if err != nil {
		t.Fatalf("readGeoJSON failed: %v", err)
	}
	if len(features) != 1 {
		t.Errorf("expected 1 feature inside the clip box, got %d", len(features))
	}
}

func TestLoad_GeoJSON(t *testing.T) {
	fc := geojson.NewFeatureCollection()

	river := geojson.NewFeature(orb.LineString{{-80.05, 40.40}, {-79.95, 40.45}})
	river.Properties["name"] = "Allegheny"
	fc.Append(river)

	park := geojson.NewFeature(orb.Polygon{{{-80.0, 40.4}, {-79.9, 40.4}, {-79.9, 40.5}, {-80.0, 40.4}}})
	park.Properties["name"] = "Schenley Park"
	fc.Append(park)

	// Multi-part lines are not drawn.
	fc.Append(geojson.NewFeature(orb.MultiLineString{
		{{-80.05, 40.40}, {-79.95, 40.45}},
		{{-79.95, 40.45}, {-79.85, 40.50}},
	}))

	path := writeGeoJSONFile(t, t.TempDir(), "pittsburgh.geojson", fc)

	v := newTestView(t, nil)
	n, err := v.Load(path, true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 shapes, got %d", n)
	}

	shapes := v.Shapes()
	if shapes[0].Path.Closed {
		t.Error("expected the river to be an open path")
	}
	if !shapes[1].Path.Closed {
		t.Error("expected the park outline to be closed")
	}
	if name, _ := shapes[1].Attributes.Get("name"); !name.Equal(StringValue("Schenley Park")) {
		t.Errorf("expected Schenley Park, got %v", name)
	}
}
