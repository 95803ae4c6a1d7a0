package mapview

import (
	"io"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
)

// CRS represents a coordinate reference system.
type CRS struct {
	Code        int    // EPSG code (e.g., 4326 for WGS84)
	Name        string // CRS name
	Description string // CRS description
}

// WGS84 returns the standard WGS84 CRS (EPSG:4326).
func WGS84() *CRS {
	return &CRS{
		Code: 4326,
		Name: "WGS 84",
	}
}

// WriteOptions configures FlatGeobuf writing.
type WriteOptions struct {
	Name         string // Layer name
	Description  string // Layer description
	IncludeIndex bool   // Include spatial index; Load requires it
	CRS          *CRS   // Coordinate reference system (optional)
}

// DefaultWriteOptions returns the default FlatGeobuf write options.
func DefaultWriteOptions() *WriteOptions {
	return &WriteOptions{
		IncludeIndex: true,
		CRS:          WGS84(),
	}
}

// WriteFeatures writes features as FlatGeobuf. Features whose geometry
// cannot be encoded are skipped. A nil opts uses DefaultWriteOptions.
func WriteFeatures(w io.Writer, features []Feature, opts *WriteOptions) error {
	if opts == nil {
		opts = DefaultWriteOptions()
	}

	if len(features) == 0 {
		return ErrNilGeometry
	}

	geomType := flattypes.GeometryTypeUnknown
	for i, f := range features {
		t := fgbGeometryType(f.Geometry)
		if i == 0 {
			geomType = t
		} else if t != geomType {
			geomType = flattypes.GeometryTypeUnknown
			break
		}
	}

	rows := make([]Attributes, len(features))
	for i, f := range features {
		rows[i] = f.Attributes
	}
	columns := inferColumns(rows)

	builder := flatbuffers.NewBuilder(4096)

	header := writer.NewHeader(builder)
	header.SetGeometryType(geomType)
	if opts.Name != "" {
		header.SetName(opts.Name)
	}
	if opts.Description != "" {
		header.SetDescription(opts.Description)
	}
	if len(columns) > 0 {
		header.SetColumns(buildColumns(columns, builder))
	}
	if opts.CRS != nil {
		crs := writer.NewCrs(builder)
		crs.SetOrg("EPSG")
		if opts.CRS.Code > 0 {
			crs.SetCode(int32(opts.CRS.Code))
		}
		if opts.CRS.Name != "" {
			crs.SetName(opts.CRS.Name)
		}
		if opts.CRS.Description != "" {
			crs.SetDescription(opts.CRS.Description)
		}
		header.SetCrs(crs)
	}

	gen := &featureGenerator{features: features, columns: columns}

	fgbWriter := writer.NewWriter(header, opts.IncludeIndex, gen, nil)
	_, err := fgbWriter.Write(w)
	return err
}

// featureGenerator feeds features to the FlatGeobuf writer one at a time.
type featureGenerator struct {
	features []Feature
	columns  []column
	index    int
}

func (g *featureGenerator) Generate() *writer.Feature {
	for g.index < len(g.features) {
		f := g.features[g.index]
		g.index++

		builder := flatbuffers.NewBuilder(1024)
		fgbGeom := geometryToFGB(f.Geometry, builder)
		if fgbGeom == nil {
			continue
		}

		feature := writer.NewFeature(builder)
		feature.SetGeometry(fgbGeom)

		if props := encodeProperties(f.Attributes, g.columns); len(props) > 0 {
			feature.SetProperties(props)
		}
		return feature
	}
	return nil
}
