package sui

import "math"

// CoordinateScale is the fixed-point multiplier the venue registry uses
// for latitude and longitude.
const CoordinateScale = 1_000_000

// EncodeCoordinate converts degrees to the contract's fixed-point u64.
// The scaled value is truncated toward zero; negative coordinates keep
// their two's complement bit pattern.
func EncodeCoordinate(deg float64) uint64 {
	return uint64(int64(math.Trunc(deg * CoordinateScale)))
}

// DecodeCoordinate is the inverse of EncodeCoordinate, exact to 1e-6.
func DecodeCoordinate(v uint64) float64 {
	return float64(int64(v)) / CoordinateScale
}

func validLatitude(v float64) bool {
	return !math.IsNaN(v) && v >= -90 && v <= 90
}

func validLongitude(v float64) bool {
	return !math.IsNaN(v) && v >= -180 && v <= 180
}

// ValidateCoordinates reports an ErrValidation for a latitude or longitude
// outside its range.
func ValidateCoordinates(lat, lng float64) error {
	if !validLatitude(lat) {
		return validationErr("latitude %v out of range", lat)
	}
	if !validLongitude(lng) {
		return validationErr("longitude %v out of range", lng)
	}
	return nil
}
