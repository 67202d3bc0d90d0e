package location

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of PreferenceRepository,
// keyed by the device's client id. A missing row reads as "not asked yet".
type PostgresRepository struct {
	pool     *pgxpool.Pool
	clientID string
}

// NewPostgresRepository creates a new PostgreSQL preference repository.
func NewPostgresRepository(pool *pgxpool.Pool, clientID string) *PostgresRepository {
	return &PostgresRepository{pool: pool, clientID: clientID}
}

// PromptAsked reports whether the permission prompt was already shown.
func (r *PostgresRepository) PromptAsked(ctx context.Context) (bool, error) {
	query := `
		SELECT location_prompt_asked
		FROM client_preferences
		WHERE client_id = $1
	`

	var asked bool
	err := r.pool.QueryRow(ctx, query, r.clientID).Scan(&asked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return asked, nil
}

// SetPromptAsked records that the prompt was shown.
func (r *PostgresRepository) SetPromptAsked(ctx context.Context, asked bool) error {
	query := `
		INSERT INTO client_preferences (client_id, location_prompt_asked, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (client_id)
		DO UPDATE SET location_prompt_asked = EXCLUDED.location_prompt_asked,
		              updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, r.clientID, asked)
	return err
}
