// Package geo holds the location model owned by a bootcamp and the
// spherical helpers used by radius search.
package geo

import "math"

// EarthRadiusMiles is the mean Earth radius radius search divides distances by.
// Distances are always miles.
const EarthRadiusMiles = 3963.0

// Point is a geocoded location. Coordinates are stored [longitude, latitude].
type Point struct {
	Type             string     `json:"type"`
	Coordinates      [2]float64 `json:"coordinates"`
	FormattedAddress string     `json:"formattedAddress,omitempty"`
	Street           string     `json:"street,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Zipcode          string     `json:"zipcode,omitempty"`
	Country          string     `json:"country,omitempty"`
}

// NewPoint builds a Point from latitude/longitude degrees.
func NewPoint(lat, lng float64) Point {
	return Point{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

// Longitude returns the point's longitude in degrees.
func (p Point) Longitude() float64 { return p.Coordinates[0] }

// Latitude returns the point's latitude in degrees.
func (p Point) Latitude() float64 { return p.Coordinates[1] }

// AngularRadius converts a linear distance in miles to radians on the Earth sphere.
func AngularRadius(miles float64) float64 {
	return miles / EarthRadiusMiles
}

// RadiusMiles converts an angular radius back to a linear distance in miles.
func RadiusMiles(radians float64) float64 {
	return radians * EarthRadiusMiles
}

// Haversine returns the great-circle distance in miles between two points
// given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
