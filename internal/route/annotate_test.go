package route

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommentUnitAndPlain(t *testing.T) {
	ext := ParseComment("Temp(C): 21.5, Humidity: 60")

	assert.Equal(t, map[string]float64{"temp": 21.5, "humidity": 60}, ext.Values)
	assert.Equal(t, map[string]string{"temp": "C"}, ext.Units)
	assert.Equal(t, []string{"humidity", "temp", "temp_unit"}, ext.Keys())
}

func TestParseCommentDropsProse(t *testing.T) {
	ext := ParseComment("nice spot, Temp(C): 21.5")

	assert.Equal(t, map[string]float64{"temp": 21.5}, ext.Values)
	assert.Equal(t, map[string]string{"temp": "C"}, ext.Units)
	assert.Equal(t, 2, ext.Len())
}

func TestParseCommentFragments(t *testing.T) {
	ext := ParseComment("Wind  Speed (km/h): 12\nAir pressure: -3.25\r\nnote: bring water\nDepth: .5\n\n,")

	v, ok := ext.Value("wind_speed")
	require.True(t, ok)
	assert.Equal(t, 12.0, v)
	u, ok := ext.Unit("wind_speed")
	require.True(t, ok)
	assert.Equal(t, "km/h", u)

	v, ok = ext.Value("air_pressure")
	require.True(t, ok)
	assert.Equal(t, -3.25, v)
	_, ok = ext.Unit("air_pressure")
	assert.False(t, ok)

	v, ok = ext.Value("depth")
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	_, ok = ext.Value("note")
	assert.False(t, ok, "non-numeric values are dropped")
}

func TestParseCommentEmpty(t *testing.T) {
	assert.Equal(t, 0, ParseComment("").Len())
	assert.Equal(t, 0, ParseComment("just a lovely view").Len())
	assert.Equal(t, 0, ParseComment(": 5, (C): 3").Len())
}

func TestLabelKey(t *testing.T) {
	assert.Equal(t, "temp", LabelKey("Temp"))
	assert.Equal(t, "heart_rate", LabelKey("  Heart \t Rate "))
	assert.Equal(t, "", LabelKey("   "))
}

func TestAnnotateWaypointCommentWins(t *testing.T) {
	structured := NewExtensions()
	structured.Set("temp", 18)
	structured.Set("depth", 3)

	merged := AnnotateWaypoint(structured, "Temp(C): 21.5")

	assert.Equal(t, map[string]float64{"temp": 21.5, "depth": 3}, merged.Values)
	assert.Equal(t, map[string]string{"temp": "C"}, merged.Units)

	// input is left untouched
	v, _ := structured.Value("temp")
	assert.Equal(t, 18.0, v)
	assert.Empty(t, structured.Units)
}

func TestAnnotateWaypointKeepsStructuredUnit(t *testing.T) {
	structured := NewExtensions()
	structured.SetWithUnit("temp", 18, "F")

	merged := AnnotateWaypoint(structured, "temp: 20")

	v, _ := merged.Value("temp")
	assert.Equal(t, 20.0, v)
	u, _ := merged.Unit("temp")
	assert.Equal(t, "F", u, "only keys emitted by the comment are overwritten")
}

func TestExtensionsJSONIsFlat(t *testing.T) {
	ext := ParseComment("Temp(C): 21.5, Humidity: 60")

	data, err := json.Marshal(ext)
	require.NoError(t, err)
	assert.JSONEq(t, `{"temp":21.5,"temp_unit":"C","humidity":60}`, string(data))

	var back Extensions
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ext, back)

	assert.Error(t, json.Unmarshal([]byte(`{"note":"windy"}`), &back))
	assert.Error(t, json.Unmarshal([]byte(`{"temp":[1]}`), &back))
}

func TestExtensionsZeroValueWritable(t *testing.T) {
	var ext Extensions
	ext.SetWithUnit("hr", 140, "bpm")

	v, ok := ext.Value("hr")
	require.True(t, ok)
	assert.Equal(t, 140.0, v)
	assert.Equal(t, []string{"hr", "hr_unit"}, ext.Keys())
}

func TestExtensionsUnitShadowsReading(t *testing.T) {
	for _, comment := range []string{
		"Temp(C): 21.5, Temp unit: 3",
		"Temp unit: 3, Temp(C): 21.5",
	} {
		ext := ParseComment(comment)

		assert.Equal(t, map[string]float64{"temp": 21.5}, ext.Values, comment)
		assert.Equal(t, map[string]string{"temp": "C"}, ext.Units, comment)
		assert.Equal(t, 2, ext.Len(), comment)
		assert.Equal(t, []string{"temp", "temp_unit"}, ext.Keys(), comment)

		data, err := json.Marshal(ext)
		require.NoError(t, err)
		assert.JSONEq(t, `{"temp":21.5,"temp_unit":"C"}`, string(data), comment)
	}

	// a reading named like a unit survives while no unit claims it
	ext := ParseComment("Flow unit: 3")
	v, ok := ext.Value("flow_unit")
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}
