package geoscore

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the radius of the spherical Earth used for scoring.
const EarthRadiusMeters = 6371000.0

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies inside the lat/lng ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Normalize clamps latitude to [-90,90] and wraps longitude into [-180,180].
// Map widgets that repeat the world horizontally report longitudes past ±180.
func (c Coordinate) Normalize() Coordinate {
	lat := math.Max(-90, math.Min(90, c.Lat))
	lng := c.Lng
	if lng < -180 || lng > 180 {
		lng = math.Mod(lng+180, 360)
		if lng < 0 {
			lng += 360
		}
		lng -= 180
	}
	return Coordinate{Lat: lat, Lng: lng}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

// DistanceMeters returns the haversine great-circle distance between a and b.
func DistanceMeters(a, b Coordinate) float64 {
	φ1 := a.Lat * math.Pi / 180.0
	φ2 := b.Lat * math.Pi / 180.0
	dφ := (b.Lat - a.Lat) * math.Pi / 180.0
	dλ := (b.Lng - a.Lng) * math.Pi / 180.0

	sinDφ := math.Sin(dφ / 2)
	sinDλ := math.Sin(dλ / 2)

	h := sinDφ*sinDφ + math.Cos(φ1)*math.Cos(φ2)*sinDλ*sinDλ
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// Score returns the points awarded for a guess distanceMeters away from the target.
// The exponential decay never reaches zero for a finite distance, but rounding can.
// Result is in [0, s.Ceiling()].
func Score(distanceMeters float64, s Setting) int {
	raw := float64(s.MaxScore) * math.Exp(-distanceMeters/s.FalloffMeters)

	score := int(math.Round(raw * s.Multiplier))
	if score < 0 {
		score = 0
	}
	if ceiling := s.Ceiling(); score > ceiling {
		return ceiling
	}
	return score
}

// FormatDistance formats distance in a human-readable way.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	km := meters / 1000.0
	switch {
	case km >= 100:
		return fmt.Sprintf("%.0f km", km)
	case km >= 10:
		return fmt.Sprintf("%.1f km", km)
	default:
		return fmt.Sprintf("%.2f km", km)
	}
}
