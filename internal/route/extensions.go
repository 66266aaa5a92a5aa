package route

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

const unitSuffix = "_unit"

// Extensions is an open set of numeric readings keyed by label, each with
// an optional unit. It serialises flat, the unit of "temp" under "temp_unit",
// so a unit shadows any reading named "temp_unit" whichever is set first.
type Extensions struct {
	Values map[string]float64
	Units  map[string]string
}

// NewExtensions returns an empty, writable set.
func NewExtensions() Extensions {
	return Extensions{
		Values: make(map[string]float64),
		Units:  make(map[string]string),
	}
}

// Set stores a reading without touching any unit already recorded for key.
// A reading whose key collides with a recorded unit is ignored.
func (e *Extensions) Set(key string, v float64) {
	if label, ok := strings.CutSuffix(key, unitSuffix); ok {
		if _, shadowed := e.Units[label]; shadowed {
			return
		}
	}
	if e.Values == nil {
		e.Values = make(map[string]float64)
	}
	e.Values[key] = v
}

// SetWithUnit stores a reading and its unit.
func (e *Extensions) SetWithUnit(key string, v float64, unit string) {
	e.Set(key, v)
	e.setUnit(key, unit)
}

func (e *Extensions) setUnit(key, unit string) {
	if e.Units == nil {
		e.Units = make(map[string]string)
	}
	e.Units[key] = unit
	delete(e.Values, key+unitSuffix)
}

// Value returns the reading stored under key.
func (e Extensions) Value(key string) (float64, bool) {
	v, ok := e.Values[key]
	return v, ok
}

// Unit returns the unit recorded for key.
func (e Extensions) Unit(key string) (string, bool) {
	u, ok := e.Units[key]
	return u, ok
}

// Len counts flat keys, units included.
func (e Extensions) Len() int {
	return len(e.Values) + len(e.Units)
}

// Keys lists the flat keys in sorted order.
func (e Extensions) Keys() []string {
	keys := maps.Keys(e.Values)
	for k := range e.Units {
		keys = append(keys, k+unitSuffix)
	}
	slices.Sort(keys)
	return keys
}

// Overlay copies every entry of other into e; other wins on collision.
func (e *Extensions) Overlay(other Extensions) {
	for k, v := range other.Values {
		e.Set(k, v)
	}
	for k, u := range other.Units {
		e.setUnit(k, u)
	}
}

// Clone returns a deep copy.
func (e Extensions) Clone() Extensions {
	out := NewExtensions()
	out.Overlay(e)
	return out
}

func (e Extensions) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, e.Len())
	for k, v := range e.Values {
		flat[k] = v
	}
	for k, u := range e.Units {
		flat[k+unitSuffix] = u
	}
	return json.Marshal(flat)
}

func (e *Extensions) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	*e = NewExtensions()
	for k, raw := range flat {
		switch v := raw.(type) {
		case float64:
			e.Values[k] = v
		case string:
			label, ok := strings.CutSuffix(k, unitSuffix)
			if !ok {
				return fmt.Errorf("extension %q: text values are only allowed for units", k)
			}
			e.Units[label] = v
		case nil:
		default:
			return fmt.Errorf("extension %q: unsupported value %T", k, raw)
		}
	}
	return nil
}
