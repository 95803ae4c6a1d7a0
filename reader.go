package mapview

import (
	"fmt"
	"os"

	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb"
)

// ColumnInfo describes a property column in a FlatGeobuf file.
type ColumnInfo struct {
	Name     string // Column name
	Type     string // Column type ("Bool", "Double", "String", ...)
	Nullable bool   // Whether the column can contain null values
}

// Header contains metadata about a FlatGeobuf file.
type Header struct {
	Name          string       // Layer name
	Description   string       // Layer description
	GeometryType  string       // Geometry type ("Point", "Polygon", "Unknown", etc.)
	FeaturesCount uint64       // Number of features in the file
	Envelope      orb.Bound    // Bounding box of all features
	HasIndex      bool         // Whether the file has a spatial index
	Columns       []ColumnInfo // Property column schema
}

// fgbReader reads features from a FlatGeobuf file.
type fgbReader struct {
	path string
	fgb  *flatgeobuf.FlatGeoBuf
}

func openFlatGeobuf(path string) (*fgbReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fgb, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("read flatgeobuf %s: %w", path, err)
	}
	return &fgbReader{path: path, fgb: fgb}, nil
}

// ReadHeader returns the metadata of the FlatGeobuf file at path.
func ReadHeader(path string) (*Header, error) {
	r, err := openFlatGeobuf(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Header(), nil
}

// Header returns metadata about the FlatGeobuf file.
func (r *fgbReader) Header() *Header {
	h := r.fgb.Header()
	if h == nil {
		return nil
	}

	header := &Header{
		Name:          string(h.Name()),
		Description:   string(h.Description()),
		GeometryType:  flattypes.EnumNamesGeometryType[h.GeometryType()],
		FeaturesCount: h.FeaturesCount(),
		HasIndex:      h.IndexNodeSize() > 0,
	}

	if h.EnvelopeLength() >= 4 {
		header.Envelope = orb.Bound{
			Min: orb.Point{h.Envelope(0), h.Envelope(1)},
			Max: orb.Point{h.Envelope(2), h.Envelope(3)},
		}
	}

	colLen := h.ColumnsLength()
	for i := 0; i < colLen; i++ {
		var col flattypes.Column
		if h.Columns(&col, i) {
			header.Columns = append(header.Columns, ColumnInfo{
				Name:     string(col.Name()),
				Type:     flattypes.EnumNamesColumnType[col.Type()],
				Nullable: col.Nullable(),
			})
		}
	}

	return header
}

// Features returns the features whose bounding boxes intersect clip, found
// through the packed R-tree index. A nil clip returns every feature.
// Features with no convertible geometry are left out.
func (r *fgbReader) Features(clip *orb.Bound) ([]Feature, error) {
	h := r.fgb.Header()

	// The Go reader only exposes features through the index. Files written
	// without one also report a feature count of zero.
	if h.IndexNodeSize() == 0 {
		return nil, fmt.Errorf("%s: %w", r.path, ErrNoIndex)
	}
	if h.FeaturesCount() == 0 {
		return nil, nil
	}

	var b orb.Bound
	switch {
	case clip != nil:
		b = *clip
	case h.EnvelopeLength() >= 4:
		b = orb.Bound{
			Min: orb.Point{h.Envelope(0), h.Envelope(1)},
			Max: orb.Point{h.Envelope(2), h.Envelope(3)},
		}
	default:
		b = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}
	}

	found, err := r.fgb.Search(b.Min[0], b.Min[1], b.Max[0], b.Max[1])
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.path, err)
	}

	features := make([]Feature, 0, len(found))
	for _, f := range found {
		feature, ok := convertFeature(f, h)
		if !ok {
			continue
		}
		// The index works on node boxes; check the feature itself.
		if clip != nil && !clip.Intersects(feature.Geometry.Bound()) {
			continue
		}
		features = append(features, feature)
	}
	return features, nil
}

// Close releases the file data.
func (r *fgbReader) Close() error {
	r.fgb = nil
	return nil
}

// convertFeature converts a FlatGeobuf feature.
func convertFeature(fgbFeature *flattypes.Feature, header *flattypes.Header) (Feature, bool) {
	if fgbFeature == nil {
		return Feature{}, false
	}

	var geomObj flattypes.Geometry
	geom := fgbFeature.Geometry(&geomObj)
	if geom == nil {
		return Feature{}, false
	}

	orbGeom := geometryFromFGB(geom)
	if orbGeom == nil {
		return Feature{}, false
	}

	var attrs Attributes
	if propsLen := fgbFeature.PropertiesLength(); propsLen > 0 && header.ColumnsLength() > 0 {
		propsBytes := make([]byte, propsLen)
		for i := 0; i < propsLen; i++ {
			propsBytes[i] = byte(fgbFeature.Properties(i))
		}
		attrs = decodeProperties(propsBytes, header)
	} else {
		attrs = Attributes{}
	}

	return Feature{Geometry: orbGeom, Attributes: attrs}, true
}
