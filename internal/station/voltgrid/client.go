// Package voltgrid provides a client for the VoltGrid station API.
package voltgrid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chargescout/chargescout/internal/provider/resilience"
	"github.com/chargescout/chargescout/internal/station"
)

const (
	// DefaultBaseURL is the base URL for the VoltGrid API.
	DefaultBaseURL = "https://api.voltgrid.in/api/v1"

	// ProviderName identifies this provider.
	ProviderName = "voltgrid"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the VoltGrid client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a VoltGrid API client.
//
// List fetches never fail from the caller's point of view: on transport or
// server failure the client substitutes FallbackStations so the discovery
// surface is never empty purely because the backend is down. Detail fetches
// propagate their errors; a detail view may legitimately show nothing.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new VoltGrid client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      2,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     3 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Query describes a station list request.
type Query struct {
	Search string
	Lat    float64
	Lng    float64
	Radius float64

	// HasCoords marks Lat/Lng as meaningful; zero coordinates are a real
	// place, so presence cannot be inferred from the values.
	HasCoords bool
}

// Page is one page of list results in the server's pagination envelope.
type Page struct {
	Stations    []station.Station
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int

	// Fallback marks a page served from the built-in dataset after a
	// failed live fetch.
	Fallback bool
}

// API response types (from the VoltGrid API).

type listEnvelope struct {
	Data listPayload `json:"data"`
}

type listPayload struct {
	Data        []stationRecord `json:"data"`
	CurrentPage int             `json:"current_page"`
	LastPage    int             `json:"last_page"`
	PerPage     int             `json:"per_page"`
	Total       int             `json:"total"`
}

type detailEnvelope struct {
	Data stationRecord `json:"data"`
}

type stationRecord struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	Locality      string          `json:"locality"`
	Lat           flexFloat       `json:"lat"`
	Lng           flexFloat       `json:"lng"`
	IsActive      *int            `json:"is_active"`
	OpeningTime   string          `json:"opening_time"`
	ClosingTime   string          `json:"closing_time"`
	Is24x7        intBool         `json:"is_24x7"`
	OverallRating flexFloat       `json:"overall_rating"`
	Breakdown     map[string]int  `json:"rating_breakdown"`
	Chargers      []chargerRecord `json:"chargers"`
	Media         []mediaRecord   `json:"media"`
	Reviews       []reviewRecord  `json:"reviews"`
}

type chargerRecord struct {
	ConnectorType string    `json:"connector_type"`
	VoltageClass  string    `json:"voltage_class"`
	PowerKW       flexFloat `json:"power_kw"`
	IsActive      intBool   `json:"is_active"`
}

type mediaRecord struct {
	URL      string `json:"url"`
	Role     string `json:"role"`
	Position int    `json:"position"`
}

type reviewRecord struct {
	Author    string    `json:"author"`
	Rating    flexFloat `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt string    `json:"created_at"`
}

// FetchList retrieves one page of stations matching the query.
// On any transport or server failure it returns the fallback dataset
// instead of an error.
func (c *Client) FetchList(ctx context.Context, q Query) (*Page, error) {
	page, err := c.fetchListPage(ctx, q)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("search", q.Search).
			Msg("station list fetch failed, serving fallback dataset")
		return fallbackPage(), nil
	}
	return page, nil
}

func (c *Client) fetchListPage(ctx context.Context, q Query) (*Page, error) {
	params := url.Values{}
	params.Set("search", q.Search)
	if q.HasCoords {
		params.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
		params.Set("lng", strconv.FormatFloat(q.Lng, 'f', -1, 64))
	}
	params.Set("radius", strconv.FormatFloat(q.Radius, 'f', -1, 64))

	reqURL := c.baseURL + "/stations?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from stations endpoint", resp.StatusCode)
	}

	var result listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode stations response: %w", err)
	}

	stations := make([]station.Station, 0, len(result.Data.Data))
	for i := range result.Data.Data {
		stations = append(stations, toStation(&result.Data.Data[i]))
	}

	return &Page{
		Stations:    stations,
		CurrentPage: result.Data.CurrentPage,
		LastPage:    result.Data.LastPage,
		PerPage:     result.Data.PerPage,
		Total:       result.Data.Total,
	}, nil
}

// FetchDetail retrieves one station's full record, including reviews,
// media and chargers. Failures propagate to the caller.
func (c *Client) FetchDetail(ctx context.Context, id int) (*station.Station, error) {
	reqURL := fmt.Sprintf("%s/stations/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch station %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, station.ErrStationNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from station detail endpoint", resp.StatusCode)
	}

	var result detailEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode station detail response: %w", err)
	}

	s := toStation(&result.Data)
	return &s, nil
}

// toStation converts an API record to the domain Station.
func toStation(rec *stationRecord) station.Station {
	s := station.Station{
		ID:            rec.ID,
		Name:          rec.Name,
		Address:       rec.Address,
		Locality:      rec.Locality,
		Lat:           float64(rec.Lat),
		Lng:           float64(rec.Lng),
		OpeningTime:   rec.OpeningTime,
		ClosingTime:   rec.ClosingTime,
		Is24x7:        bool(rec.Is24x7),
		OverallRating: float64(rec.OverallRating),
		Status:        toStatus(rec.IsActive),
	}

	for star := 1; star <= 5; star++ {
		s.RatingBreakdown[star-1] = rec.Breakdown[strconv.Itoa(star)]
	}

	for _, c := range rec.Chargers {
		s.Chargers = append(s.Chargers, station.Charger{
			ConnectorType: c.ConnectorType,
			VoltageClass:  c.VoltageClass,
			PowerKW:       float64(c.PowerKW),
			Active:        bool(c.IsActive),
		})
	}

	for _, m := range rec.Media {
		s.Media = append(s.Media, station.Media{
			URL:      m.URL,
			Role:     toMediaRole(m.Role),
			Position: m.Position,
		})
	}

	for _, r := range rec.Reviews {
		createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
		s.Reviews = append(s.Reviews, station.Review{
			Author:    r.Author,
			Rating:    float64(r.Rating),
			Comment:   r.Comment,
			CreatedAt: createdAt,
		})
	}

	return s
}

// toStatus derives the operational status from the boolean-as-int flag.
// An absent flag leaves the status empty for the store to default.
func toStatus(isActive *int) station.Status {
	if isActive == nil {
		return ""
	}
	if *isActive != 0 {
		return station.StatusAvailable
	}
	return station.StatusMaintenance
}

func toMediaRole(role string) station.MediaRole {
	switch strings.ToUpper(role) {
	case "PRIMARY":
		return station.MediaRolePrimary
	case "EXTERIOR":
		return station.MediaRoleExterior
	case "PLUG":
		return station.MediaRolePlug
	case "INTERIOR":
		return station.MediaRoleInterior
	default:
		return station.MediaRoleExterior
	}
}
