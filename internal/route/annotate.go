package route

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Temp(C): 21.5
	labelUnitPattern = regexp.MustCompile(`^\s*([^():]+?)\s*\(\s*([^()]+?)\s*\)\s*:\s*([-+]?(?:\d+\.?\d*|\.\d+))\s*$`)
	// Humidity: 60
	labelPattern = regexp.MustCompile(`^\s*([^():]+?)\s*:\s*([-+]?(?:\d+\.?\d*|\.\d+))\s*$`)

	fragmentSeparators = regexp.MustCompile(`[\r\n,]+`)
)

// LabelKey lower-cases a free-text label and joins its words with underscores.
func LabelKey(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), "_"))
}

// ParseComment extracts "label(unit): value" and "label: value" readings
// from a free-text waypoint comment. Fragments matching neither form are
// dropped.
func ParseComment(comment string) Extensions {
	ext := NewExtensions()

	for _, fragment := range fragmentSeparators.Split(comment, -1) {
		if strings.TrimSpace(fragment) == "" {
			continue
		}

		if m := labelUnitPattern.FindStringSubmatch(fragment); m != nil {
			v, err := strconv.ParseFloat(m[3], 64)
			if err != nil {
				continue
			}
			key := LabelKey(m[1])
			if key == "" {
				continue
			}
			ext.SetWithUnit(key, v, m[2])
			continue
		}

		if m := labelPattern.FindStringSubmatch(fragment); m != nil {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			key := LabelKey(m[1])
			if key == "" {
				continue
			}
			ext.Set(key, v)
		}
	}

	return ext
}

// AnnotateWaypoint merges structured extension readings with readings
// parsed out of the comment; comment-derived keys win on collision.
func AnnotateWaypoint(structured Extensions, comment string) Extensions {
	merged := structured.Clone()
	merged.Overlay(ParseComment(comment))
	return merged
}
