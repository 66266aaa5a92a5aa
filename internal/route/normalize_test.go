package route

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/gpxroute/internal/gpx"
)

func TestNormalizePoint(t *testing.T) {
	p := gpx.Point{
		Lat:       f(46.5),
		Lon:       f(7.25),
		Elevation: f(1200),
		Time:      "2025-01-01T10:00:00Z",
		Extensions: gpx.RawXML(`<gpxtpx:TrackPointExtension>
			<gpxtpx:hr>151</gpxtpx:hr>
			<gpxtpx:cad>88</gpxtpx:cad>
			<gpxtpx:speed>4.2</gpxtpx:speed>
		</gpxtpx:TrackPointExtension>`),
	}

	rp, err := NormalizePoint(p)
	require.NoError(t, err)

	assert.Equal(t, Coordinate{Lat: 46.5, Lon: 7.25, Ele: 1200, Time: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}, rp.Position)
	require.NotNil(t, rp.HeartRate)
	require.NotNil(t, rp.Cadence)
	require.NotNil(t, rp.Speed)
	assert.Equal(t, 151.0, *rp.HeartRate)
	assert.Equal(t, 88.0, *rp.Cadence)
	assert.Equal(t, 4.2, *rp.Speed)
}

func TestNormalizePointAbsentSensors(t *testing.T) {
	rp, err := NormalizePoint(gpx.Point{Lat: f(0), Lon: f(0), Time: "2025-01-01T10:00:00Z"})
	require.NoError(t, err)

	assert.Equal(t, 0.0, rp.Position.Ele, "missing elevation defaults to 0")
	assert.Nil(t, rp.Speed)
	assert.Nil(t, rp.HeartRate)
	assert.Nil(t, rp.Cadence)
}

func TestNormalizePointZeroIsRecorded(t *testing.T) {
	rp, err := NormalizePoint(gpx.Point{
		Lat:        f(1),
		Lon:        f(2),
		Time:       "2025-01-01T10:00:00Z",
		Extensions: gpx.RawXML(`<hr>0</hr>`),
	})
	require.NoError(t, err)

	require.NotNil(t, rp.HeartRate)
	assert.Equal(t, 0.0, *rp.HeartRate)
}

func TestNormalizePointGPX10Speed(t *testing.T) {
	rp, err := NormalizePoint(gpx.Point{
		Lat:        f(1),
		Lon:        f(2),
		Time:       "2025-01-01T10:00:00Z",
		Speed:      f(5.5),
		Extensions: gpx.RawXML(`<speed>1.0</speed><heartrate>120</heartrate><cadence>70</cadence>`),
	})
	require.NoError(t, err)

	assert.Equal(t, 5.5, *rp.Speed, "the <speed> element wins over extensions")
	assert.Equal(t, 120.0, *rp.HeartRate)
	assert.Equal(t, 70.0, *rp.Cadence)
}

func TestNormalizePointErrors(t *testing.T) {
	_, err := NormalizePoint(gpx.Point{Lat: f(1), Lon: f(2)})
	assert.ErrorIs(t, err, ErrMissingTimestamp)

	_, err = NormalizePoint(gpx.Point{Lat: f(1), Lon: f(2), Time: "   "})
	assert.ErrorIs(t, err, ErrMissingTimestamp)

	_, err = NormalizePoint(gpx.Point{Lat: f(1), Lon: f(2), Time: "noon-ish"})
	assert.ErrorIs(t, err, ErrMalformedDocument)

	_, err = NormalizePoint(gpx.Point{Lat: f(1), Time: "2025-01-01T10:00:00Z"})
	assert.ErrorIs(t, err, ErrMalformedDocument)

	_, err = NormalizePoint(gpx.Point{Lat: f(1), Lon: f(2), Time: "2025-01-01T10:00:00Z", Extensions: gpx.RawXML(`<hr>1</cad>`)})
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestNormalizePointRejectsBadNumbers(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)

	tests := []struct {
		name string
		p    gpx.Point
	}{
		{"nan latitude", gpx.Point{Lat: f(nan), Lon: f(2)}},
		{"nan longitude", gpx.Point{Lat: f(1), Lon: f(nan)}},
		{"inf latitude", gpx.Point{Lat: f(inf), Lon: f(2)}},
		{"negative inf longitude", gpx.Point{Lat: f(1), Lon: f(-inf)}},
		{"latitude above 90", gpx.Point{Lat: f(95), Lon: f(2)}},
		{"latitude below -90", gpx.Point{Lat: f(-90.5), Lon: f(2)}},
		{"longitude above 180", gpx.Point{Lat: f(1), Lon: f(180.1)}},
		{"longitude below -180", gpx.Point{Lat: f(1), Lon: f(-200)}},
		{"nan elevation", gpx.Point{Lat: f(1), Lon: f(2), Elevation: f(nan)}},
		{"inf elevation", gpx.Point{Lat: f(1), Lon: f(2), Elevation: f(-inf)}},
		{"nan speed", gpx.Point{Lat: f(1), Lon: f(2), Speed: f(nan)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.p.Time = "2025-01-01T10:00:00Z"
			_, err := NormalizePoint(tt.p)
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestNormalizePointAcceptsLimits(t *testing.T) {
	for _, pos := range [][2]float64{{90, 180}, {-90, -180}, {0, 0}} {
		_, err := NormalizePoint(gpx.Point{Lat: f(pos[0]), Lon: f(pos[1]), Time: "2025-01-01T10:00:00Z"})
		assert.NoError(t, err, "lat %v lon %v", pos[0], pos[1])
	}
}

func TestNormalizePointDropsNonFiniteSensors(t *testing.T) {
	rp, err := NormalizePoint(gpx.Point{
		Lat:        f(1),
		Lon:        f(2),
		Time:       "2025-01-01T10:00:00Z",
		Extensions: gpx.RawXML(`<hr>NaN</hr><cad>Inf</cad><speed>3</speed>`),
	})
	require.NoError(t, err)

	assert.Nil(t, rp.HeartRate)
	assert.Nil(t, rp.Cadence)
	require.NotNil(t, rp.Speed)
	assert.Equal(t, 3.0, *rp.Speed)
}
