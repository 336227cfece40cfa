package domain

import (
	"math"
	"slices"
	"strconv"
)

const knotsToMph = 1.15078

var defaultHurricaneCodes = []string{"HU", "MH"}

// Classify derives the category label for a point. Hurricane-grade storm
// types ("HU", "MH") are banded on the Saffir-Simpson scale using the wind in
// knots; every other storm type code is passed through unchanged.
//
// The second result is false when a hurricane-grade code carries wind of
// 63 knots or less, in which case no category is assigned.
func Classify(windKnots int, stormType string) (string, bool) {
	return classify(defaultHurricaneCodes, windKnots, stormType)
}

func classify(hurricaneCodes []string, windKnots int, stormType string) (string, bool) {
	if !slices.Contains(hurricaneCodes, stormType) {
		return stormType, true
	}
	band := hurricaneBand(windKnots)
	if band == 0 {
		return "", false
	}
	return "H" + strconv.Itoa(band), true
}

// hurricaneBand maps sustained wind in knots to a Saffir-Simpson category,
// returning 0 below hurricane strength.
func hurricaneBand(knots int) int {
	switch {
	case knots <= 63:
		return 0
	case knots <= 82:
		return 1
	case knots <= 95:
		return 2
	case knots <= 112:
		return 3
	case knots <= 136:
		return 4
	default:
		return 5
	}
}

// KnotsToMph converts knots to miles per hour, rounded to the nearest 5 mph
// (halves round away from zero).
func KnotsToMph(knots int) int {
	return int(math.Round(float64(knots)*knotsToMph/5) * 5)
}
