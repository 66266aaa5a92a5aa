package route

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/planbiir/gpxroute/internal/gpx"
	"github.com/planbiir/gpxroute/internal/timeutil"
)

// DefaultName is used when the source file name yields nothing usable.
const DefaultName = "Unnamed Route"

type options struct {
	clock  timeutil.Clock
	newID  func() string
	strict bool
}

// Option configures Parse and Assemble.
type Option func(*options)

// WithClock sets the clock used when the document carries no date.
func WithClock(c timeutil.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDFunc replaces the route ID generator.
func WithIDFunc(f func() string) Option {
	return func(o *options) { o.newID = f }
}

// WithStrictTimestamps makes backward timestamps fatal instead of an issue.
func WithStrictTimestamps() Option {
	return func(o *options) { o.strict = true }
}

func newOptions(opts []Option) options {
	o := options{
		clock: timeutil.RealClock{},
		newID: NewID,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewID returns a fresh route identifier, unique across goroutines.
func NewID() string {
	return "route_" + uuid.NewString()
}

// NameFromFile derives a route name from the uploaded file's base name.
func NameFromFile(fileName string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	if base == "." || base == string(filepath.Separator) {
		return DefaultName
	}
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		return DefaultName
	}
	return name
}

// ParseFile reads a GPX file to completion and parses it.
func ParseFile(path string, opts ...Option) (*Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseBytes(data, filepath.Base(path), opts...)
}

// Parse reads r to completion and parses the GPX document in it.
func Parse(r io.Reader, fileName string, opts ...Option) (*Route, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GPX: %w", err)
	}
	return ParseBytes(data, fileName, opts...)
}

// ParseBytes parses an in-memory GPX document into a Route.
func ParseBytes(data []byte, fileName string, opts ...Option) (*Route, error) {
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return Assemble(doc, fileName, opts...)
}

// Assemble builds a Route from a decoded document. Every track becomes one
// segment, its trksegs concatenated. No partial Route is returned on error.
func Assemble(doc *gpx.GPX, fileName string, opts ...Option) (*Route, error) {
	o := newOptions(opts)

	if len(doc.Tracks) == 0 {
		return nil, ErrNoTrackData
	}

	segments := make([]RouteSegment, 0, len(doc.Tracks))
	var issues []DataIssue

	for ti, track := range doc.Tracks {
		raw := track.Points()
		if len(raw) == 0 {
			return nil, &ParseError{Track: ti, Point: -1, Err: fmt.Errorf("%w: track has no points", ErrMalformedDocument)}
		}

		points := make([]RoutePoint, len(raw))
		for pi, p := range raw {
			rp, err := NormalizePoint(p)
			if err != nil {
				return nil, &ParseError{Track: ti, Point: pi, Err: err}
			}
			points[pi] = rp
		}

		distance := track.Distance()
		seg, err := AggregateSegment(points, &distance)
		if err != nil {
			return nil, &ParseError{Track: ti, Point: -1, Err: err}
		}

		segments = append(segments, seg)
		issues = append(issues, timeOrderIssues(ti, seg)...)
	}
	issues = append(issues, boundaryIssues(segments)...)

	if o.strict && len(issues) > 0 {
		first := issues[0]
		return nil, &ParseError{Track: first.Segment, Point: first.Point, Err: fmt.Errorf("%w: %s", ErrTemporalInversion, first.Message)}
	}

	totals, err := AggregateRoute(segments)
	if err != nil {
		return nil, err
	}

	waypoints := make([]Waypoint, 0, len(doc.Waypoints))
	for wi, p := range doc.Waypoints {
		wpt, err := NewWaypoint(p)
		if err != nil {
			issues = append(issues, waypointIssue(wi, fmt.Sprintf("waypoint %d dropped: %v", wi, err)))
			continue
		}
		if wpt.Time == nil && strings.TrimSpace(p.Time) != "" {
			issues = append(issues, waypointIssue(wi, fmt.Sprintf("waypoint %d: unreadable time %q ignored", wi, p.Time)))
		}
		waypoints = append(waypoints, wpt)
	}

	meta := doc.Meta()
	date := o.clock.Now()
	if ts, err := gpx.ParseTime(meta.Time); err == nil {
		date = ts
	}

	return &Route{
		ID:                 o.newID(),
		Name:               NameFromFile(fileName),
		Description:        meta.Description,
		Date:               date,
		Segments:           segments,
		TotalDistance:      totals.Distance,
		TotalDuration:      totals.Duration,
		TotalElevationGain: totals.ElevationGain,
		TotalElevationLoss: totals.ElevationLoss,
		StartPoint:         totals.StartPoint,
		EndPoint:           totals.EndPoint,
		Bounds:             totals.Bounds,
		Waypoints:          waypoints,
		Issues:             issues,
	}, nil
}

// NewWaypoint converts a raw <wpt>, annotating its comment. A waypoint
// without a usable position is an error; an unreadable time is left nil.
func NewWaypoint(p gpx.Point) (Waypoint, error) {
	if err := checkPosition(p); err != nil {
		return Waypoint{}, err
	}

	wpt := Waypoint{
		Lat:         *p.Lat,
		Lon:         *p.Lon,
		Name:        p.Name,
		Description: p.Description,
		Comment:     p.Comment,
	}

	if p.Elevation != nil {
		ele := *p.Elevation
		wpt.Ele = &ele
	}

	if strings.TrimSpace(p.Time) != "" {
		if ts, err := gpx.ParseTime(p.Time); err == nil {
			wpt.Time = &ts
		}
	}

	values, err := p.Extensions.Values()
	if err != nil {
		return Waypoint{}, fmt.Errorf("%w: extensions: %v", ErrMalformedDocument, err)
	}

	structured := NewExtensions()
	for k, v := range values {
		structured.Set(k, v)
	}
	wpt.Extensions = AnnotateWaypoint(structured, p.Comment)

	return wpt, nil
}

func waypointIssue(index int, msg string) DataIssue {
	return DataIssue{Kind: IssueInvalidWaypoint, Segment: -1, Point: index, Message: msg}
}
