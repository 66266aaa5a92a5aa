package route

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument means the input is not usable GPX: broken XML,
	// points without coordinates, unreadable timestamps, empty tracks.
	ErrMalformedDocument = errors.New("malformed GPX document")

	// ErrNoTrackData means the document parsed but holds no <trk>.
	ErrNoTrackData = errors.New("no tracks found in GPX file")

	// ErrMissingTimestamp means a track point has no <time>.
	ErrMissingTimestamp = errors.New("track point has no timestamp")

	// ErrTemporalInversion is only returned when strict timestamps are on;
	// otherwise backward time is reported through Route.Issues.
	ErrTemporalInversion = errors.New("timestamps run backward")
)

// ParseError locates a fatal problem inside the document.
// Point is -1 when the whole track is at fault.
type ParseError struct {
	Track int
	Point int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Point < 0 {
		return fmt.Sprintf("track %d: %v", e.Track, e.Err)
	}
	return fmt.Sprintf("track %d point %d: %v", e.Track, e.Point, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
