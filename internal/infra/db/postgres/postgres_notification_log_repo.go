package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tripreel/internal/domain"
	"tripreel/internal/domain/ports/repository"
)

var _ repository.NotificationLogRepository = (*notificationLogRepo)(nil)

type notificationLogRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationLogRepo(pool *pgxpool.Pool) repository.NotificationLogRepository {
	return &notificationLogRepo{pool: pool}
}

func (r *notificationLogRepo) Save(ctx context.Context, tx repository.Tx, jobID, kind string) error {
	// The primary key on (job_id, kind) handles duplicate prevention; a
	// repeated send attempt is a no-op rather than an error.
	const q = `
INSERT INTO job_notifications (job_id, kind)
VALUES ($1, $2)
ON CONFLICT (job_id, kind) DO NOTHING;`

	_, err := execSQL(ctx, r.pool, tx, q, jobID, kind)
	return err
}

func (r *notificationLogRepo) Exists(ctx context.Context, tx repository.Tx, jobID, kind string) (bool, error) {
	// SELECT EXISTS(...) is more efficient than SELECT COUNT(*) as it stops on the first match.
	const q = `
SELECT EXISTS(
    SELECT 1 FROM job_notifications
    WHERE job_id = $1 AND kind = $2
)`
	var exists bool
	row, err := pickRow(ctx, r.pool, tx, q, jobID, kind)
	if err != nil {
		return false, err
	}

	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil // Should not happen with SELECT EXISTS, but safe to handle.
		}
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}
