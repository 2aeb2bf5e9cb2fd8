package entity

import (
	"math"
	"regexp"
	"strconv"
)

// plainDecimal matches an optionally signed decimal with optional exponent.
// Hex floats, digit separators and the NaN/Inf spellings are not accepted.
var plainDecimal = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// ParseNumber parses text written as a plain finite decimal number.
// Anything else fails with a *strconv.NumError.
func ParseNumber(text string) (float64, error) {
	if !plainDecimal.MatchString(text) {
		return 0, &strconv.NumError{Func: "ParseNumber", Num: text, Err: strconv.ErrSyntax}
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if !IsFinite(value) {
		return 0, &strconv.NumError{Func: "ParseNumber", Num: text, Err: strconv.ErrRange}
	}
	return value, nil
}

// IsFinite reports whether value is neither NaN nor an infinity
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
