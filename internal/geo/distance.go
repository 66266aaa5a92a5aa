package geo

import "math"

// EarthRadius is the mean WGS84 sphere radius in meters.
const EarthRadius = 6371000.0

// Haversine returns the great-circle distance in meters between two points
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

// LatLon is anything with a geodetic position.
type LatLon interface {
	LatLon() (lat, lon float64)
}

// PathLength sums the haversine distance across consecutive positions.
func PathLength[T LatLon](path []T) float64 {
	if len(path) < 2 {
		return 0
	}

	var total float64
	prevLat, prevLon := path[0].LatLon()
	for _, p := range path[1:] {
		lat, lon := p.LatLon()
		total += Haversine(prevLat, prevLon, lat, lon)
		prevLat, prevLon = lat, lon
	}
	return total
}
