package discovery

import (
	"context"

	"github.com/chargescout/chargescout/internal/station"
	"github.com/chargescout/chargescout/internal/station/voltgrid"
)

// VoltGridRepository adapts the VoltGrid client to the Repository interface.
// Callers consume only the data array of the pagination envelope.
type VoltGridRepository struct {
	client *voltgrid.Client
}

// NewVoltGridRepository wraps a VoltGrid client.
func NewVoltGridRepository(client *voltgrid.Client) *VoltGridRepository {
	return &VoltGridRepository{client: client}
}

// FetchList implements Repository.
func (r *VoltGridRepository) FetchList(ctx context.Context, d Descriptor) ([]station.Station, error) {
	page, err := r.client.FetchList(ctx, voltgrid.Query{
		Search:    d.Search,
		Lat:       d.Lat,
		Lng:       d.Lng,
		Radius:    d.Radius,
		HasCoords: d.HasCoords,
	})
	if err != nil {
		return nil, err
	}
	return page.Stations, nil
}

// FetchDetail implements Repository.
func (r *VoltGridRepository) FetchDetail(ctx context.Context, id int) (*station.Station, error) {
	return r.client.FetchDetail(ctx, id)
}
