package route

import (
	"time"

	"github.com/planbiir/gpxroute/internal/geo"
	"github.com/planbiir/gpxroute/internal/units"
)

// ProfilePoint is one sample of the distance profile charts are drawn from.
// Missing sensor readings are reported as 0.
type ProfilePoint struct {
	Distance  float64 // cumulative meters from the first sample
	Elevation float64
	SpeedKmh  float64
	HeartRate float64
	Time      time.Time
}

// Profile walks all points of the route and accumulates haversine distance.
// When maxSamples > 0 only every len/maxSamples-th point is kept, and the
// distance is measured between kept points.
func (r *Route) Profile(maxSamples int) []ProfilePoint {
	points := r.Points()
	if len(points) == 0 {
		return nil
	}

	stride := 1
	if maxSamples > 0 {
		stride = max(1, len(points)/maxSamples)
	}

	out := make([]ProfilePoint, 0, len(points)/stride+1)
	var cumulative float64
	var prev RoutePoint
	for i := 0; i < len(points); i += stride {
		p := points[i]
		if len(out) > 0 {
			cumulative += geo.Haversine(prev.Position.Lat, prev.Position.Lon, p.Position.Lat, p.Position.Lon)
		}

		sample := ProfilePoint{
			Distance:  cumulative,
			Elevation: p.Position.Ele,
			Time:      p.Position.Time,
		}
		if p.Speed != nil {
			sample.SpeedKmh = units.MetersPerSecondToKmh(*p.Speed)
		}
		if p.HeartRate != nil {
			sample.HeartRate = *p.HeartRate
		}

		out = append(out, sample)
		prev = p
	}

	return out
}
