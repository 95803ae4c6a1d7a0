package mapview

import "math"

// MeanEarthRadius is the sphere radius used by Haversine, in meters.
const MeanEarthRadius = 6371000.0

// LatLon is a (latitude, longitude) pair in degrees.
type LatLon struct {
	Lat, Lon float64
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(origin, destination LatLon) float64 {
	dLat := radians(destination.Lat - origin.Lat)
	dLon := radians(destination.Lon - origin.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(radians(origin.Lat))*math.Cos(radians(destination.Lat))*sinLon*sinLon
	// Rounding can push a just past 1 for near-antipodal points.
	a = math.Max(0, math.Min(1, a))

	return MeanEarthRadius * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(d float64) float64 {
	return d * math.Pi / 180
}
