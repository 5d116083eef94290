// Package geo computes great-circle distances for provider ranking.
package geo

import "math"

// EarthRadiusKm is the spherical-Earth approximation used throughout.
const EarthRadiusKm = 6371.0

// Unrankable is the sort-key sentinel for records whose distance cannot be
// computed. It is never rendered as a real number in API responses.
func Unrankable() float64 {
	return math.Inf(1)
}

// Distance returns the haversine great-circle distance in kilometers between
// two coordinate pairs. It never panics: NaN or infinite inputs yield the
// unrankable sentinel instead.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	for _, v := range [...]float64{lat1, lon1, lat2, lon2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Unrankable()
		}
	}

	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Floating-point overshoot at identical or antipodal points would make
	// Asin(Sqrt(a)) return NaN; clamp before the inverse-trig step.
	a = math.Max(0, math.Min(a, 1))

	c := 2 * math.Asin(math.Sqrt(a))
	d := EarthRadiusKm * c
	if math.IsNaN(d) {
		return Unrankable()
	}
	return d
}

// DistanceOpt behaves like Distance but tolerates missing coordinates.
// Any nil input yields the unrankable sentinel.
func DistanceOpt(lat1, lon1, lat2, lon2 *float64) float64 {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return Unrankable()
	}
	return Distance(*lat1, *lon1, *lat2, *lon2)
}
