package route

import (
	"fmt"
	"math"
)

// Totals are the route-level roll-up of its segments.
type Totals struct {
	Distance      float64
	Duration      float64
	ElevationGain float64
	ElevationLoss float64

	StartPoint Coordinate
	EndPoint   Coordinate
	Bounds     Bounds
}

// AggregateRoute sums segment metrics and finds the start, end and
// bounding box of an ordered, non-empty list of segments.
func AggregateRoute(segments []RouteSegment) (Totals, error) {
	if len(segments) == 0 {
		return Totals{}, ErrNoTrackData
	}

	var t Totals
	for i, seg := range segments {
		if len(seg.Points) == 0 {
			return Totals{}, fmt.Errorf("%w: segment %d has no points", ErrMalformedDocument, i)
		}
		t.Distance += seg.Distance
		t.Duration += seg.Duration
		t.ElevationGain += seg.ElevationGain
		t.ElevationLoss += seg.ElevationLoss
	}

	first, last := segments[0], segments[len(segments)-1]
	t.StartPoint = first.Points[0].Position
	t.EndPoint = last.Points[len(last.Points)-1].Position
	t.Bounds = boundsOf(segments)

	return t, nil
}

func boundsOf(segments []RouteSegment) Bounds {
	b := Bounds{
		MinLat: math.Inf(1),
		MaxLat: math.Inf(-1),
		MinLon: math.Inf(1),
		MaxLon: math.Inf(-1),
	}

	for _, seg := range segments {
		for _, p := range seg.Points {
			b.MinLat = math.Min(b.MinLat, p.Position.Lat)
			b.MaxLat = math.Max(b.MaxLat, p.Position.Lat)
			b.MinLon = math.Min(b.MinLon, p.Position.Lon)
			b.MaxLon = math.Max(b.MaxLon, p.Position.Lon)
		}
	}

	return b
}

// boundaryIssues flags segments that start before the previous one ended.
func boundaryIssues(segments []RouteSegment) []DataIssue {
	var issues []DataIssue
	for i := 1; i < len(segments); i++ {
		prev, curr := segments[i-1], segments[i]
		if len(prev.Points) == 0 || len(curr.Points) == 0 {
			continue
		}
		end := prev.Points[len(prev.Points)-1].Position.Time
		start := curr.Points[0].Position.Time
		if start.Before(end) {
			issues = append(issues, DataIssue{
				Kind:    IssueTemporalInversion,
				Segment: i,
				Point:   0,
				Message: fmt.Sprintf("segment %d starts %v before segment %d ends", i, end.Sub(start), i-1),
			})
		}
	}
	return issues
}
