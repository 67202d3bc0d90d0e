package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chargescout/chargescout/internal/station"
)

// Snapshot is a warmed station list for one locality.
type Snapshot struct {
	Locality string
	Stations []station.Station
	WarmedAt time.Time
	Fallback bool
}

// SnapshotStore persists warmed station lists.
type SnapshotStore interface {
	// Save replaces the snapshot for a locality.
	Save(ctx context.Context, snap Snapshot) error

	// Get returns the snapshot for a locality, or nil when none exists.
	Get(ctx context.Context, locality string) (*Snapshot, error)
}

// InMemorySnapshotStore is an in-memory SnapshotStore for development and tests.
type InMemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewInMemorySnapshotStore creates a new in-memory snapshot store.
func NewInMemorySnapshotStore() *InMemorySnapshotStore {
	return &InMemorySnapshotStore{
		snapshots: make(map[string]Snapshot),
	}
}

// Save implements SnapshotStore.
func (s *InMemorySnapshotStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stations := make([]station.Station, len(snap.Stations))
	copy(stations, snap.Stations)
	snap.Stations = stations
	s.snapshots[snap.Locality] = snap
	return nil
}

// Get implements SnapshotStore.
func (s *InMemorySnapshotStore) Get(_ context.Context, locality string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[locality]
	if !ok {
		return nil, nil
	}
	stations := make([]station.Station, len(snap.Stations))
	copy(stations, snap.Stations)
	snap.Stations = stations
	return &snap, nil
}

// PostgresSnapshotStore is a PostgreSQL-backed SnapshotStore.
//
// Schema:
//
//	CREATE TABLE station_snapshots (
//	    locality  TEXT PRIMARY KEY,
//	    stations  JSONB NOT NULL,
//	    fallback  BOOLEAN NOT NULL DEFAULT FALSE,
//	    warmed_at TIMESTAMPTZ NOT NULL
//	);
type PostgresSnapshotStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSnapshotStore creates a new PostgreSQL snapshot store.
func NewPostgresSnapshotStore(pool *pgxpool.Pool) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{pool: pool}
}

// Save implements SnapshotStore.
func (s *PostgresSnapshotStore) Save(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap.Stations)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	query := `
		INSERT INTO station_snapshots (locality, stations, fallback, warmed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (locality)
		DO UPDATE SET stations = $2, fallback = $3, warmed_at = $4`

	if _, err := s.pool.Exec(ctx, query, snap.Locality, payload, snap.Fallback, snap.WarmedAt); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Get implements SnapshotStore.
func (s *PostgresSnapshotStore) Get(ctx context.Context, locality string) (*Snapshot, error) {
	query := `
		SELECT stations, fallback, warmed_at
		FROM station_snapshots
		WHERE locality = $1`

	var (
		payload  []byte
		fallback bool
		warmedAt time.Time
	)
	row := s.pool.QueryRow(ctx, query, locality)
	if err := row.Scan(&payload, &fallback, &warmedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	var stations []station.Station
	if err := json.Unmarshal(payload, &stations); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	return &Snapshot{
		Locality: locality,
		Stations: stations,
		Fallback: fallback,
		WarmedAt: warmedAt,
	}, nil
}
