package models

import (
	"time"

	"github.com/chargescout/chargescout/internal/station"
)

// StationSummary is one entry in a station list response.
type StationSummary struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address,omitempty"`
	Locality      string  `json:"locality,omitempty"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	Status        string  `json:"status"`
	PowerKW       float64 `json:"powerKw"`
	OverallRating float64 `json:"overallRating"`
	OpenNow       string  `json:"openNow"`
	DistanceKM    float64 `json:"distanceKm,omitempty"`
	ETAMinutes    int     `json:"etaMinutes,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// StationList is the list response envelope.
type StationList struct {
	Data       []StationSummary `json:"data"`
	Pagination Pagination       `json:"pagination"`
	Fallback   bool             `json:"fallback,omitempty"`
}

// StationDetail is the full station record for the detail endpoint.
type StationDetail struct {
	StationSummary

	Chargers        []ChargerInfo `json:"chargers"`
	Media           []MediaInfo   `json:"media"`
	Reviews         []ReviewInfo  `json:"reviews"`
	RatingBreakdown [5]int        `json:"ratingBreakdown"`
	OpeningTime     string        `json:"openingTime,omitempty"`
	ClosingTime     string        `json:"closingTime,omitempty"`
	Is24x7          bool          `json:"is24x7"`
}

// ChargerInfo describes one connector.
type ChargerInfo struct {
	ConnectorType string  `json:"connectorType"`
	VoltageClass  string  `json:"voltageClass"`
	PowerKW       float64 `json:"powerKw"`
	Active        bool    `json:"active"`
}

// MediaInfo describes one station image.
type MediaInfo struct {
	URL      string `json:"url"`
	Role     string `json:"role"`
	Position int    `json:"position"`
}

// ReviewInfo describes one review on the detail record.
type ReviewInfo struct {
	Author    string    `json:"author"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// ToStationSummary maps a domain station to its list representation.
func ToStationSummary(s *station.Station, now time.Time) StationSummary {
	return StationSummary{
		ID:            s.ID,
		Name:          s.Name,
		Address:       s.Address,
		Locality:      s.Locality,
		Lat:           s.Lat,
		Lng:           s.Lng,
		Status:        string(s.Status),
		PowerKW:       s.PowerKW,
		OverallRating: s.OverallRating,
		OpenNow:       string(s.OpenNow(now)),
		DistanceKM:    s.DistanceKM,
		ETAMinutes:    s.ETAMinutes,
		ImageURL:      s.PrimaryImage(),
	}
}

// ToStationDetail maps a domain station to its detail representation.
func ToStationDetail(s *station.Station, now time.Time) StationDetail {
	d := StationDetail{
		StationSummary:  ToStationSummary(s, now),
		RatingBreakdown: [5]int(s.RatingBreakdown),
		OpeningTime:     s.OpeningTime,
		ClosingTime:     s.ClosingTime,
		Is24x7:          s.Is24x7,
		Chargers:        make([]ChargerInfo, 0, len(s.Chargers)),
		Media:           make([]MediaInfo, 0, len(s.Media)),
		Reviews:         make([]ReviewInfo, 0, len(s.Reviews)),
	}

	for _, c := range s.Chargers {
		d.Chargers = append(d.Chargers, ChargerInfo{
			ConnectorType: c.ConnectorType,
			VoltageClass:  c.VoltageClass,
			PowerKW:       c.PowerKW,
			Active:        c.Active,
		})
	}
	for _, m := range s.Media {
		d.Media = append(d.Media, MediaInfo{URL: m.URL, Role: string(m.Role), Position: m.Position})
	}
	for _, r := range s.Reviews {
		d.Reviews = append(d.Reviews, ReviewInfo{
			Author:    r.Author,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: Timestamp(r.CreatedAt),
		})
	}

	return d
}
