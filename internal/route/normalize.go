package route

import (
	"fmt"
	"math"
	"strings"

	"github.com/planbiir/gpxroute/internal/gpx"
)

// Extension element names that carry each sensor, in order of preference.
var (
	speedKeys     = []string{"speed"}
	heartRateKeys = []string{"hr", "heartrate"}
	cadenceKeys   = []string{"cad", "cadence"}
)

// NormalizePoint turns a raw track point into a RoutePoint. Missing
// elevation becomes 0; a missing timestamp is fatal. Sensor readings are
// passed through without unit conversion.
func NormalizePoint(p gpx.Point) (RoutePoint, error) {
	if err := checkPosition(p); err != nil {
		return RoutePoint{}, err
	}

	if strings.TrimSpace(p.Time) == "" {
		return RoutePoint{}, ErrMissingTimestamp
	}

	ts, err := gpx.ParseTime(p.Time)
	if err != nil {
		return RoutePoint{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	var ele float64
	if p.Elevation != nil {
		ele = *p.Elevation
	}

	sensors, err := p.Extensions.Values()
	if err != nil {
		return RoutePoint{}, fmt.Errorf("%w: extensions: %v", ErrMalformedDocument, err)
	}

	point := RoutePoint{
		Position: Coordinate{
			Lat:  *p.Lat,
			Lon:  *p.Lon,
			Ele:  ele,
			Time: ts,
		},
		Speed:     lookup(sensors, speedKeys),
		HeartRate: lookup(sensors, heartRateKeys),
		Cadence:   lookup(sensors, cadenceKeys),
	}

	if p.Speed != nil {
		if !isFinite(*p.Speed) {
			return RoutePoint{}, fmt.Errorf("%w: speed %v", ErrMalformedDocument, *p.Speed)
		}
		speed := *p.Speed
		point.Speed = &speed
	}

	return point, nil
}

func lookup(values map[string]float64, keys []string) *float64 {
	for _, k := range keys {
		if v, ok := values[k]; ok {
			return &v
		}
	}
	return nil
}

// checkPosition rejects missing, non-finite or out-of-range coordinates and
// a non-finite elevation. encoding/xml happily decodes "NaN" and "Inf".
func checkPosition(p gpx.Point) error {
	if p.Lat == nil || p.Lon == nil {
		return fmt.Errorf("%w: point has no coordinates", ErrMalformedDocument)
	}
	lat, lon := *p.Lat, *p.Lon
	if !isFinite(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrMalformedDocument, lat)
	}
	if !isFinite(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrMalformedDocument, lon)
	}
	if p.Elevation != nil && !isFinite(*p.Elevation) {
		return fmt.Errorf("%w: elevation %v", ErrMalformedDocument, *p.Elevation)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
