// Package geo computes great-circle distances between geographic coordinates
// using the haversine formula.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by every distance check.
const EarthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters between two points
// given in decimal degrees.
//
//	a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
//	c = 2 ⋅ atan2(√a, √(1−a))
//	d = R ⋅ c
//
// Inputs are not range-checked; out-of-range coordinates yield a defined but
// meaningless result.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := degreesToRadians(lat1)
	phi2 := degreesToRadians(lat2)
	deltaPhi := degreesToRadians(lat2 - lat1)
	deltaLambda := degreesToRadians(lon2 - lon1)

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// DistanceMeters is Haversine rounded to the nearest whole meter. This is the
// value compared against collection radii and stored on footprints.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) int {
	return int(math.Round(Haversine(lat1, lon1, lat2, lon2)))
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
