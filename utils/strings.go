package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SpaceDelimitedStringToFloatSlice splits up space-delimited fields in a string and converts them to floats.
func SpaceDelimitedStringToFloatSlice(s string) ([]float64, error) {
	fields := strings.Fields(s)
	converted := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse %q as a number", field)
		}
		converted = append(converted, value)
	}
	return converted, nil
}

// ParseVector3 parses "x y z". An empty string yields def.
func ParseVector3(s string, def [3]float64) ([3]float64, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	values, err := SpaceDelimitedStringToFloatSlice(s)
	if err != nil {
		return def, err
	}
	if len(values) != 3 {
		return def, errors.Errorf("expected 3 values, got %d in %q", len(values), s)
	}
	return [3]float64{values[0], values[1], values[2]}, nil
}
