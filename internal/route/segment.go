package route

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/planbiir/gpxroute/internal/geo"
)

// AggregateSegment derives a RouteSegment from an ordered, non-empty run of
// points. distance is the track length reported by the decoder; when nil
// it is measured here with haversine over consecutive points.
//
// Speed statistics only look at points 1..N-1, yet AvgSpeed divides by N.
// Existing consumers depend on these exact numbers, so keep the arithmetic.
func AggregateSegment(points []RoutePoint, distance *float64) (RouteSegment, error) {
	n := len(points)
	if n == 0 {
		return RouteSegment{}, fmt.Errorf("%w: segment has no points", ErrMalformedDocument)
	}

	var gain, loss float64
	speeds := make([]float64, 0, n-1)

	for i := 1; i < n; i++ {
		prev, curr := points[i-1], points[i]

		if curr.Speed != nil {
			speeds = append(speeds, *curr.Speed)
		} else {
			speeds = append(speeds, 0)
		}

		delta := curr.Position.Ele - prev.Position.Ele
		switch {
		case delta > 0:
			gain += delta
		case delta < 0:
			loss += -delta
		}
	}

	var maxSpeed float64
	if len(speeds) > 0 {
		maxSpeed = math.Max(0, floats.Max(speeds))
	}

	seg := RouteSegment{
		Points:        slices.Clone(points),
		Duration:      points[n-1].Position.Time.Sub(points[0].Position.Time).Seconds(),
		ElevationGain: gain,
		ElevationLoss: loss,
		MaxSpeed:      maxSpeed,
		AvgSpeed:      floats.Sum(speeds) / float64(n),
	}

	if distance != nil {
		seg.Distance = *distance
	} else {
		seg.Distance = geo.PathLength(points)
	}

	return seg, nil
}

// timeOrderIssues reports every backward step between consecutive points,
// plus the segment itself when its overall duration is negative.
func timeOrderIssues(segIdx int, seg RouteSegment) []DataIssue {
	var issues []DataIssue

	for i := 1; i < len(seg.Points); i++ {
		prev, curr := seg.Points[i-1].Position.Time, seg.Points[i].Position.Time
		if curr.Before(prev) {
			issues = append(issues, DataIssue{
				Kind:    IssueTemporalInversion,
				Segment: segIdx,
				Point:   i,
				Message: fmt.Sprintf("point %d is %v earlier than point %d", i, prev.Sub(curr), i-1),
			})
		}
	}

	if seg.Duration < 0 {
		issues = append(issues, DataIssue{
			Kind:    IssueTemporalInversion,
			Segment: segIdx,
			Point:   -1,
			Message: fmt.Sprintf("segment duration is negative (%.3fs)", seg.Duration),
		})
	}

	return issues
}
