// Package geo holds the coordinate type and great-circle helpers used to rank
// dishes by proximity.
package geo

import (
	"fmt"
	"math"
	"net/url"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm
const EarthRadiusKm = 6371.0

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Point is a coordinate pair as sent by a client. A component left out of
// the payload stays nil rather than defaulting to zero.
type Point struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// Coordinates returns the pair when both components are present and in range
func (p Point) Coordinates() (Coordinates, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return Coordinates{}, false
	}
	c := Coordinates{Latitude: *p.Latitude, Longitude: *p.Longitude}
	return c, c.Valid()
}

// Valid reports whether both components are inside their geographic range
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// DistanceKm returns the Haversine distance between two points in kilometers
func DistanceKm(from, to Coordinates) float64 {
	dLat := radians(to.Latitude - from.Latitude)
	dLon := radians(to.Longitude - from.Longitude)

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(radians(from.Latitude))*math.Cos(radians(to.Latitude))*
			math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// FormatDistance renders a distance the way the feed shows it:
// meters below one kilometer, otherwise kilometers with one decimal.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int64(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}

// MapsURL builds a maps search link for a place, preferring coordinates over
// the free-text address. Returns "" when neither is available.
func MapsURL(coords *Coordinates, address string) string {
	const base = "https://www.google.com/maps/search/?api=1&query="

	if coords != nil {
		return fmt.Sprintf("%s%v,%v", base, coords.Latitude, coords.Longitude)
	}
	if address != "" {
		return base + url.QueryEscape(address)
	}
	return ""
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
