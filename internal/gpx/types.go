package gpx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// RawXML preserves nested extension blocks without re-parsing them.
// We store the inner XML bytes verbatim and only look inside on demand,
// since every vendor (Garmin, Strava, Suunto) nests them differently.
type RawXML []byte

func (r *RawXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type inner struct {
		Content string `xml:",innerxml"`
	}

	var data inner
	if err := d.DecodeElement(&data, &start); err != nil {
		return err
	}

	if len(strings.TrimSpace(data.Content)) == 0 {
		*r = nil
		return nil
	}

	*r = append((*r)[:0], data.Content...)
	return nil
}

// Values flattens the extension block into leaf element values keyed by
// lower-cased local name. Leaves whose text is not a finite number are
// skipped, as are parent elements. With duplicate names the last leaf wins.
func (r RawXML) Values() (map[string]float64, error) {
	values := make(map[string]float64)
	if len(r) == 0 {
		return values, nil
	}

	type frame struct {
		name     string
		text     []byte
		hasChild bool
	}

	var stack []*frame
	dec := xml.NewDecoder(bytes.NewReader(r))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) > 0 {
				stack[len(stack)-1].hasChild = true
			}
			stack = append(stack, &frame{name: strings.ToLower(t.Name.Local)})
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.text = append(top.text, t...)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.hasChild {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(string(top.text)), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values[top.name] = v
		}
	}

	return values, nil
}

// Point is a GPX wptType: used for both track points and waypoints.
// Coordinates are pointers so a missing attribute can be told apart
// from the equator or the prime meridian.
type Point struct {
	Lat       *float64 `xml:"lat,attr"`
	Lon       *float64 `xml:"lon,attr"`
	Elevation *float64 `xml:"ele"`
	Time      string   `xml:"time"`

	// GPX 1.0 carries speed directly on the point
	Speed *float64 `xml:"speed"`

	Name        string `xml:"name"`
	Comment     string `xml:"cmt"`
	Description string `xml:"desc"`

	// Extensions (Garmin, Strava, etc.) - preserve as raw XML
	Extensions RawXML `xml:"extensions"`
}

// LatLon returns the coordinates, zero where an attribute is missing.
func (p Point) LatLon() (float64, float64) {
	var lat, lon float64
	if p.Lat != nil {
		lat = *p.Lat
	}
	if p.Lon != nil {
		lon = *p.Lon
	}
	return lat, lon
}

// Track represents a GPX track with segments
type Track struct {
	Name        string         `xml:"name"`
	Description string         `xml:"desc"`
	Segments    []TrackSegment `xml:"trkseg"`
}

// TrackSegment represents a track segment
type TrackSegment struct {
	Points []Point `xml:"trkpt"`
}

// GPX represents the parts of a GPX file we read
type GPX struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`

	Metadata  Metadata `xml:"metadata"`
	Waypoints []Point  `xml:"wpt"`
	Tracks    []Track  `xml:"trk"`

	// GPX 1.0 keeps these at the root instead of under <metadata>
	Name        string `xml:"name"`
	Description string `xml:"desc"`
	Time        string `xml:"time"`
}

// Metadata represents GPX metadata
type Metadata struct {
	Name        string `xml:"name"`
	Description string `xml:"desc"`
	Time        string `xml:"time"`
}
