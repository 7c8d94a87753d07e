package kernel

import (
	"encoding/json"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// LongitudeMin and LongitudeMax bound valid longitudes in degrees.
	LongitudeMin = -180.0
	LongitudeMax = 180.0
	// LatitudeMin and LatitudeMax bound valid latitudes in degrees.
	LatitudeMin = -90.0
	LatitudeMax = 90.0

	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0

	// MetersPerDegreeLatitude approximates one degree of latitude. Used for
	// bounding-box prefilters; the exact distance always comes from
	// DistanceMeters.
	MetersPerDegreeLatitude = 111195.0
)

// ErrLocationIsNotConstructed is returned when attempting to use an improperly
// initialized Location. Locations must be created via NewLocation.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is an immutable geographic point in WGS84 degrees. Coordinates
// follow the wire convention of the persisted documents: longitude first,
// latitude second.
//
// The zero value of Location is invalid and will fail validation - use the
// constructor to create instances.
//
// Example:
//
//	loc, err := kernel.NewLocation(77.58, 12.90)
//	if err != nil {
//	    // Handle validation error
//	}
type Location struct {
	longitude float64
	latitude  float64
	guard     guard.ConstructorGuard
}

// NewLocation creates a Location from longitude and latitude in degrees.
// Longitude must lie in [-180, 180] and latitude in [-90, 90]; both bounds
// are inclusive. Returns a ValueIsOutOfRangeError otherwise.
func NewLocation(longitude, latitude float64) (Location, error) {
	if longitude < LongitudeMin || longitude > LongitudeMax || math.IsNaN(longitude) {
		return Location{}, errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}
	if latitude < LatitudeMin || latitude > LatitudeMax || math.IsNaN(latitude) {
		return Location{}, errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	return Location{
		longitude: longitude,
		latitude:  latitude,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Longitude returns the longitude in degrees.
func (l Location) Longitude() float64 {
	return l.longitude
}

// Latitude returns the latitude in degrees.
func (l Location) Latitude() float64 {
	return l.latitude
}

// DistanceMeters returns the great-circle distance to other in meters,
// computed with the haversine formula over a sphere of radius 6371 km.
func (l Location) DistanceMeters(other Location) float64 {
	lat1 := l.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - l.latitude) * math.Pi / 180
	dLon := (other.longitude - l.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c * 1000
}

// MarshalJSON encodes the location as {"lng": ..., "lat": ...}.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Lng float64 `json:"lng"`
		Lat float64 `json:"lat"`
	}{Lng: l.longitude, Lat: l.latitude})
}

// UnmarshalJSON parses a location from {"lng": ..., "lat": ...}, applying the
// same range validation as NewLocation.
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lng float64 `json:"lng"`
		Lat float64 `json:"lat"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := NewLocation(raw.Lng, raw.Lat)
	if err != nil {
		return err
	}

	*l = parsed
	return nil
}

// IsEqual compares two locations by coordinates.
func (l Location) IsEqual(other Location) bool {
	return l.longitude == other.longitude && l.latitude == other.latitude
}

// String implements fmt.Stringer in [longitude, latitude] order.
func (l Location) String() string {
	return fmt.Sprintf("[%.6f, %.6f]", l.longitude, l.latitude)
}

// Validate ensures the Location was created via NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}
