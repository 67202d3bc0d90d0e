// Package handler provides HTTP handlers for the ChargeScout API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chargescout/chargescout/internal/api/models"
	"github.com/chargescout/chargescout/internal/api/response"
	"github.com/chargescout/chargescout/internal/discovery"
	"github.com/chargescout/chargescout/internal/station"
	"github.com/chargescout/chargescout/internal/station/voltgrid"
)

// StationSource provides station list pages and detail records.
type StationSource interface {
	FetchList(ctx context.Context, q voltgrid.Query) (*voltgrid.Page, error)
	FetchDetail(ctx context.Context, id int) (*station.Station, error)
}

// StationHandler handles station discovery endpoints.
type StationHandler struct {
	source StationSource
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(source StationSource) *StationHandler {
	return &StationHandler{source: source}
}

// ListStations handles GET /v1/stations - search stations around a point.
//
// Query parameters: search (free text), lat/lng (viewer position), radius
// (km; defaults to the nearby radius when coordinates are present and the
// city-wide radius when they are not).
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		lat, lng  float64
		hasCoords bool
	)
	latStr, lngStr := q.Get("lat"), q.Get("lng")
	if latStr != "" || lngStr != "" {
		var fieldErrs []models.FieldError
		var err error
		if lat, err = strconv.ParseFloat(latStr, 64); err != nil {
			fieldErrs = append(fieldErrs, models.FieldError{Field: "lat", Message: "must be a number"})
		}
		if lng, err = strconv.ParseFloat(lngStr, 64); err != nil {
			fieldErrs = append(fieldErrs, models.FieldError{Field: "lng", Message: "must be a number"})
		}
		if len(fieldErrs) == 0 && !station.ValidCoords(lat, lng) {
			fieldErrs = append(fieldErrs, models.FieldError{Field: "lat", Message: "out of range"})
		}
		if len(fieldErrs) > 0 {
			response.BadRequest(w, r, "invalid coordinates", fieldErrs)
			return
		}
		hasCoords = true
	}

	d := discovery.NewDescriptor(q.Get("search"), lat, lng, hasCoords)
	if radiusStr := q.Get("radius"); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			response.BadRequest(w, r, "invalid radius", []models.FieldError{
				{Field: "radius", Message: "must be a positive number"},
			})
			return
		}
		d.Radius = radius
	}

	page, err := h.source.FetchList(r.Context(), voltgrid.Query{
		Search:    d.Search,
		Lat:       d.Lat,
		Lng:       d.Lng,
		Radius:    d.Radius,
		HasCoords: d.HasCoords,
	})
	if err != nil {
		// The client substitutes the fallback dataset on list failures, so
		// an error here means something unexpected happened locally.
		response.InternalError(w, r, "station lookup failed")
		return
	}

	now := time.Now()
	stations := page.Stations
	station.NormalizeAll(stations, lat, lng, hasCoords)

	data := make([]models.StationSummary, 0, len(stations))
	for i := range stations {
		data = append(data, models.ToStationSummary(&stations[i], now))
	}

	resp := models.StationList{
		Data: data,
		Pagination: models.Pagination{
			CurrentPage: page.CurrentPage,
			LastPage:    page.LastPage,
			PerPage:     page.PerPage,
			Total:       page.Total,
		},
		Fallback: page.Fallback,
	}

	w.Header().Set("Cache-Control", "private, max-age=30")
	response.JSON(w, r, http.StatusOK, resp)
}

// GetStation handles GET /v1/stations/{stationId} - full station detail.
func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "stationId"))
	if err != nil || id <= 0 {
		response.BadRequest(w, r, "invalid station id", []models.FieldError{
			{Field: "stationId", Message: "must be a positive integer"},
		})
		return
	}

	s, err := h.source.FetchDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			response.NotFound(w, r, "station not found")
			return
		}
		response.InternalError(w, r, "station detail fetch failed")
		return
	}

	var (
		lat, lng  float64
		hasCoords bool
	)
	if latStr, lngStr := r.URL.Query().Get("lat"), r.URL.Query().Get("lng"); latStr != "" && lngStr != "" {
		plat, errLat := strconv.ParseFloat(latStr, 64)
		plng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat == nil && errLng == nil && station.ValidCoords(plat, plng) {
			lat, lng, hasCoords = plat, plng, true
		}
	}
	station.Normalize(s, lat, lng, hasCoords)

	w.Header().Set("Cache-Control", "private, max-age=60")
	response.JSON(w, r, http.StatusOK, models.ToStationDetail(s, time.Now()))
}
