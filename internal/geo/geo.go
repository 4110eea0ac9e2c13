package geo

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

// Coordinate bounds
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Coordinate validation errors
var (
	ErrLatitudeOutOfRange  = errors.New("latitude must be between -90 and 90")
	ErrLongitudeOutOfRange = errors.New("longitude must be between -180 and 180")
)

// Coordinate is a WGS84 point in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that both components are finite and in range
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) ||
		c.Latitude < MinLatitude || c.Latitude > MaxLatitude {
		return fmt.Errorf("%w: got %v", ErrLatitudeOutOfRange, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) ||
		c.Longitude < MinLongitude || c.Longitude > MaxLongitude {
		return fmt.Errorf("%w: got %v", ErrLongitudeOutOfRange, c.Longitude)
	}
	return nil
}

// DistanceTo returns the great-circle distance to other in kilometers
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return Distance(c.Latitude, c.Longitude, other.Latitude, other.Longitude)
}

// Distance computes the Haversine distance in kilometers between two points
// given in degrees. Inputs are not range checked
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	deltaLat := toRadians(lat2 - lat1)
	deltaLon := toRadians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	// Rounding can push a just past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// SortByDistance orders items nearest first. distance reports the item's
// distance and whether it is known. Items with unknown distance follow all
// ranked items. The sort is stable so ties keep their input order
func SortByDistance[T any](items []T, distance func(T) (float64, bool)) {
	sort.SliceStable(items, func(i, j int) bool {
		di, okI := distance(items[i])
		dj, okJ := distance(items[j])
		switch {
		case okI && okJ:
			return di < dj
		case okI:
			return true
		default:
			return false
		}
	})
}
