package gpx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/planbiir/gpxroute/internal/geo"
)

// Parse reads and parses a GPX file
func Parse(filename string) (*GPX, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseBytes(data)
}

// ParseBytes parses an in-memory GPX document
func ParseBytes(data []byte) (*GPX, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses GPX from an io.Reader
func ParseReader(r io.Reader) (*GPX, error) {
	decoder := xml.NewDecoder(r)

	var gpxData GPX
	if err := decoder.Decode(&gpxData); err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	if gpxData.Version == "" {
		gpxData.Version = "1.1"
	}

	return &gpxData, nil
}

// Meta returns the document metadata, falling back to the GPX 1.0
// root-level name/desc/time fields when <metadata> leaves them empty.
func (g *GPX) Meta() Metadata {
	meta := g.Metadata
	if meta.Name == "" {
		meta.Name = g.Name
	}
	if meta.Description == "" {
		meta.Description = g.Description
	}
	if meta.Time == "" {
		meta.Time = g.Time
	}
	return meta
}

// Points returns every point of the track, segments concatenated in order
func (t Track) Points() []Point {
	var n int
	for _, seg := range t.Segments {
		n += len(seg.Points)
	}

	points := make([]Point, 0, n)
	for _, seg := range t.Segments {
		points = append(points, seg.Points...)
	}
	return points
}

// Distance is the cumulative great-circle distance in meters across all
// of the track's points, including the gaps between segments.
func (t Track) Distance() float64 {
	return geo.PathLength(t.Points())
}

// Stats returns basic counts and the time span of the document
func (g *GPX) Stats() (pointCount int, trackCount int, waypointCount int, duration time.Duration, distance float64) {
	trackCount = len(g.Tracks)
	waypointCount = len(g.Waypoints)

	var first, last time.Time
	for _, track := range g.Tracks {
		points := track.Points()
		pointCount += len(points)
		distance += geo.PathLength(points)

		for _, p := range points {
			ts, err := ParseTime(p.Time)
			if err != nil {
				continue
			}
			if first.IsZero() {
				first = ts
			}
			last = ts
		}
	}

	if !first.IsZero() {
		duration = last.Sub(first)
	}

	return
}

// timeLayouts covers what GPS devices actually write into <time>
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTime tries multiple timestamp formats for robust GPX parsing
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
