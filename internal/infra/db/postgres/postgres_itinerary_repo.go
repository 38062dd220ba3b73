package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/repository"
)

var _ repository.ItineraryRepository = (*itineraryRepo)(nil)

// itineraryRepo stores the itinerary document as JSONB. The video pipeline
// only needs it back whole; day plans are not queried relationally.
type itineraryRepo struct {
	pool *pgxpool.Pool
}

func NewItineraryRepo(pool *pgxpool.Pool) *itineraryRepo {
	return &itineraryRepo{pool: pool}
}

func (r *itineraryRepo) Save(ctx context.Context, tx repository.Tx, it *model.Itinerary) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return domain.ErrInvalidArgument
	}

	const q = `
INSERT INTO itineraries (id, destination, duration, payload, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
  destination = EXCLUDED.destination,
  duration = EXCLUDED.duration,
  payload = EXCLUDED.payload;`

	_, err = execSQL(ctx, r.pool, tx, q, it.ID, it.Destination.Label, it.Duration, payload, it.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *itineraryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Itinerary, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT payload FROM itineraries WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	it := &model.Itinerary{}
	if err := json.Unmarshal(payload, it); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return it, nil
}

func (r *itineraryRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM itineraries;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
