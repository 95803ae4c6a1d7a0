package mapview

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// readGeoJSON reads a GeoJSON FeatureCollection, or a single Feature, from
// path.
func readGeoJSON(path string, clip *orb.Bound) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		f, ferr := geojson.UnmarshalFeature(data)
		if ferr != nil {
			return nil, fmt.Errorf("decode geojson %s: %w", path, err)
		}
		fc = geojson.NewFeatureCollection().Append(f)
	}

	features := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if clip != nil && !clip.Intersects(f.Geometry.Bound()) {
			continue
		}
		features = append(features, Feature{
			Geometry:   f.Geometry,
			Attributes: AttributesOf(f.Properties),
		})
	}
	return features, nil
}
