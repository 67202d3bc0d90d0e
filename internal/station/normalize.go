package station

import "math"

const earthRadiusKM = 6371.0

// Average city driving speed used for the ETA estimate.
const etaSpeedKMH = 30.0

// Normalize fills in the defaults the backend is allowed to omit and computes
// the client-side fields. Records are normalized in place on every fetch; the
// engine never patches a previously normalized copy.
//
// Rules:
//   - Status defaults to AVAILABLE when absent.
//   - PowerKW is the highest charger power, DefaultPowerKW when none report one.
//   - OverallRating is clamped to a finite non-negative number, defaulting to 0.
//   - DistanceKM and ETAMinutes are computed when user coordinates are known
//     and the station has valid coordinates.
func Normalize(s *Station, userLat, userLng float64, hasUser bool) {
	if s.Status == "" {
		s.Status = StatusAvailable
	}

	if p := s.MaxChargerPower(); p > 0 {
		s.PowerKW = p
	} else if s.PowerKW <= 0 {
		s.PowerKW = DefaultPowerKW
	}

	if math.IsNaN(s.OverallRating) || math.IsInf(s.OverallRating, 0) || s.OverallRating < 0 {
		s.OverallRating = 0
	}

	if hasUser && s.HasValidCoords() && ValidCoords(userLat, userLng) {
		s.DistanceKM = HaversineKM(userLat, userLng, s.Lat, s.Lng)
		s.ETAMinutes = int(math.Ceil(s.DistanceKM / etaSpeedKMH * 60))
	}
}

// NormalizeAll normalizes a batch of records in place.
func NormalizeAll(stations []Station, userLat, userLng float64, hasUser bool) {
	for i := range stations {
		Normalize(&stations[i], userLat, userLng, hasUser)
	}
}

// HaversineKM returns the great-circle distance between two points in km.
func HaversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}
