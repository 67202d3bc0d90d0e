package detail

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/chargescout/chargescout/internal/discovery"
)

// ErrNoStationID means the URL did not carry a parseable station id.
var ErrNoStationID = errors.New("no station id in url")

// Both compact-layout navigation shapes resolve here: the path-style route
// used by list cards and the hash-style route used by map markers.
var (
	pathRouteRe = regexp.MustCompile(`/stations/(\d+)$`)
	hashRouteRe = regexp.MustCompile(`#/station/(\d+)$`)
)

// ParseStationURL extracts the numeric station id from either URL shape.
func ParseStationURL(url string) (int, error) {
	for _, re := range []*regexp.Regexp{hashRouteRe, pathRouteRe} {
		if m := re.FindStringSubmatch(url); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, ErrNoStationID
			}
			return id, nil
		}
	}
	return 0, ErrNoStationID
}

// Page is the compact-layout detail variant: a standalone surface that
// derives its id from the current URL and lives for exactly one navigation.
// It issues a single one-shot fetch on mount.
type Page struct {
	loader *Loader
}

// NewPage creates a page over the given repository.
func NewPage(repo discovery.Repository, logger zerolog.Logger) *Page {
	return &Page{loader: NewLoader(repo, logger)}
}

// Mount parses the station id from the URL and issues the detail fetch.
// An unparseable URL leaves the page as an empty shell.
func (p *Page) Mount(ctx context.Context, url string) {
	id, err := ParseStationURL(url)
	if err != nil {
		p.loader.Load(ctx, nil)
		return
	}
	p.loader.Load(ctx, &id)
}

// State returns the loader snapshot for rendering.
func (p *Page) State() LoaderState {
	return p.loader.State()
}

// SetTab switches the page's local display tab.
func (p *Page) SetTab(tab Tab) {
	p.loader.SetTab(tab)
}
