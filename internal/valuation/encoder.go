package valuation

import (
	"errors"
	"fmt"
)

var ErrUnknownCategoryValue = errors.New("unknown category value")

type Category string

const (
	CategoryCity         Category = "city"
	CategoryFuelType     Category = "fuel_type"
	CategoryOwnership    Category = "ownership"
	CategoryTransmission Category = "transmission"
)

// Display values in code order: the index of a value is its code.
// These must match the encoding the regression model was trained with.
var enumerations = map[Category][]string{
	CategoryCity:         {"Banglore", "Chennai", "Delhi", "Hyderabad", "Jaipur", "kolkata"},
	CategoryFuelType:     {"Petrol", "Diesel", "Electric", "Hybrid"},
	CategoryOwnership:    {"First Owner", "Second Owner", "Third Owner", "Fourth or More"},
	CategoryTransmission: {"Manual", "Automatic"},
}

var codes = func() map[Category]map[string]int {
	out := make(map[Category]map[string]int, len(enumerations))
	for cat, values := range enumerations {
		m := make(map[string]int, len(values))
		for i, v := range values {
			m[v] = i
		}
		out[cat] = m
	}
	return out
}()

// Encode maps a display value to its integer code. Lookup is exact and
// case-sensitive; anything not in the enumeration is ErrUnknownCategoryValue.
func Encode(category Category, value string) (int, error) {
	m, ok := codes[category]
	if !ok {
		return 0, fmt.Errorf("%w: no enumeration named %q", ErrUnknownCategoryValue, category)
	}
	code, ok := m[value]
	if !ok {
		return 0, fmt.Errorf("%w: %s=%q", ErrUnknownCategoryValue, category, value)
	}
	return code, nil
}

// Options returns the selectable display values of every enumeration, in code order.
func Options() map[Category][]string {
	out := make(map[Category][]string, len(enumerations))
	for cat, values := range enumerations {
		out[cat] = append([]string(nil), values...)
	}
	return out
}

// Values returns the display values of one enumeration in code order.
func Values(category Category) []string {
	return append([]string(nil), enumerations[category]...)
}
