package voltgrid

import "github.com/chargescout/chargescout/internal/station"

// FallbackStations is the fixed dataset served when the live list fetch
// fails. Two well-known Hyderabad locations with plausible defaults; enough
// to keep the discovery surface usable while the backend is unreachable.
func FallbackStations() []station.Station {
	return []station.Station{
		{
			ID:       9001,
			Name:     "GreenCharge Hub Banjara Hills",
			Address:  "Road No. 12, Banjara Hills",
			Locality: "Hyderabad",
			Lat:      17.4126,
			Lng:      78.4482,
			Status:   station.StatusAvailable,
			Is24x7:   true,
			PowerKW:  60,
			Chargers: []station.Charger{
				{ConnectorType: "CCS2", VoltageClass: "DC", PowerKW: 60, Active: true},
				{ConnectorType: "Type2", VoltageClass: "AC", PowerKW: 22, Active: true},
			},
			OverallRating: 4.2,
		},
		{
			ID:          9002,
			Name:        "VoltPoint Hitech City",
			Address:     "HITEC City Main Road, Madhapur",
			Locality:    "Hyderabad",
			Lat:         17.4435,
			Lng:         78.3772,
			Status:      station.StatusAvailable,
			OpeningTime: "06:00",
			ClosingTime: "23:00",
			PowerKW:     120,
			Chargers: []station.Charger{
				{ConnectorType: "CCS2", VoltageClass: "DC", PowerKW: 120, Active: true},
			},
			OverallRating: 4.5,
		},
	}
}

// fallbackPage wraps the fallback dataset in a single-page envelope.
func fallbackPage() *Page {
	stations := FallbackStations()
	return &Page{
		Stations:    stations,
		CurrentPage: 1,
		LastPage:    1,
		PerPage:     len(stations),
		Total:       len(stations),
		Fallback:    true,
	}
}
