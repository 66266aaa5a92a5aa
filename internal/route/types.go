package route

import (
	"time"
)

// Coordinate is a single geodetic sample. Elevation is in meters.
type Coordinate struct {
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
	Ele  float64   `json:"ele"`
	Time time.Time `json:"time"`
}

// RoutePoint is a track sample with optional sensor readings.
// A nil reading means the device did not record it, which is not the same as zero.
type RoutePoint struct {
	Position  Coordinate `json:"position"`
	Speed     *float64   `json:"speed,omitempty"`     // m/s
	HeartRate *float64   `json:"heartRate,omitempty"` // bpm
	Cadence   *float64   `json:"cadence,omitempty"`   // rpm
}

// LatLon lets RoutePoint paths be measured with geo.PathLength.
func (p RoutePoint) LatLon() (float64, float64) {
	return p.Position.Lat, p.Position.Lon
}

// RouteSegment holds the points of one GPX track and their derived metrics.
type RouteSegment struct {
	Points []RoutePoint `json:"points"`

	Distance      float64 `json:"distance"` // meters
	Duration      float64 `json:"duration"` // seconds, negative when timestamps run backward
	ElevationGain float64 `json:"elevationGain"`
	ElevationLoss float64 `json:"elevationLoss"`
	MaxSpeed      float64 `json:"maxSpeed"`
	AvgSpeed      float64 `json:"avgSpeed"`
}

// Bounds is the axis-aligned lat/lon rectangle around a route.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

// Contains reports whether the position lies inside or on the edge of b.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Waypoint is an annotated GPX <wpt>.
type Waypoint struct {
	Lat         float64    `json:"lat"`
	Lon         float64    `json:"lon"`
	Ele         *float64   `json:"ele,omitempty"`
	Time        *time.Time `json:"time,omitempty"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	Extensions  Extensions `json:"extensions"`
}

// IssueKind classifies a non-fatal data-quality problem.
type IssueKind string

const (
	// IssueTemporalInversion marks timestamps that run backward.
	IssueTemporalInversion IssueKind = "temporal_inversion"

	// IssueInvalidWaypoint marks a waypoint that was dropped or lost its time.
	IssueInvalidWaypoint IssueKind = "invalid_waypoint"
)

// DataIssue is a data-quality warning attached to a parsed route.
// Point is -1 when the issue concerns the segment as a whole. Waypoint
// issues carry Segment -1 and the waypoint index in Point.
type DataIssue struct {
	Kind    IssueKind `json:"kind"`
	Segment int       `json:"segment"`
	Point   int       `json:"point"`
	Message string    `json:"message"`
}

// Route is the fully derived result of parsing one GPX document.
type Route struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`

	Segments []RouteSegment `json:"segments"`

	TotalDistance      float64 `json:"totalDistance"`
	TotalDuration      float64 `json:"totalDuration"`
	TotalElevationGain float64 `json:"totalElevationGain"`
	TotalElevationLoss float64 `json:"totalElevationLoss"`

	StartPoint Coordinate `json:"startPoint"`
	EndPoint   Coordinate `json:"endPoint"`
	Bounds     Bounds     `json:"bounds"`

	Waypoints []Waypoint  `json:"waypoints"`
	Issues    []DataIssue `json:"issues,omitempty"`
}

// PointCount is the number of points across all segments.
func (r *Route) PointCount() int {
	var n int
	for _, seg := range r.Segments {
		n += len(seg.Points)
	}
	return n
}

// Points returns every point of the route, segments in order.
func (r *Route) Points() []RoutePoint {
	points := make([]RoutePoint, 0, r.PointCount())
	for _, seg := range r.Segments {
		points = append(points, seg.Points...)
	}
	return points
}

// HasIssue reports whether an issue of the given kind was recorded.
func (r *Route) HasIssue(kind IssueKind) bool {
	for _, issue := range r.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}
