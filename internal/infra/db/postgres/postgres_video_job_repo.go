package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/repository"
)

var _ repository.VideoJobRepository = (*videoJobRepo)(nil)

type videoJobRepo struct {
	pool *pgxpool.Pool
	tm   repository.TransactionManager
}

func NewVideoJobRepo(pool *pgxpool.Pool, tm repository.TransactionManager) *videoJobRepo {
	return &videoJobRepo{pool: pool, tm: tm}
}

const videoJobColumns = `id, itinerary_id, destination, total_days, user_photo_url, status, progress,
current_day, completed_days, current_stage, final_video_url, final_video_path,
error_message, notify_chat_id, cancel_requested, notified, created_at, updated_at`

// Save upserts the whole row in one statement: job counters and status never
// move in separate writes, so a concurrent status read sees either the old or
// the new transition, never half of one.
func (r *videoJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.VideoJob) error {
	job.UpdatedAt = time.Now()

	const q = `
INSERT INTO video_jobs (` + videoJobColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status,
  progress = EXCLUDED.progress,
  current_day = EXCLUDED.current_day,
  completed_days = EXCLUDED.completed_days,
  current_stage = EXCLUDED.current_stage,
  final_video_url = EXCLUDED.final_video_url,
  final_video_path = EXCLUDED.final_video_path,
  error_message = EXCLUDED.error_message,
  cancel_requested = EXCLUDED.cancel_requested,
  notified = EXCLUDED.notified,
  updated_at = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		job.ID, job.ItineraryID, job.Destination, job.TotalDays, job.UserPhotoURL,
		job.Status, job.Progress, job.CurrentDay, job.CompletedDays, job.CurrentStage,
		job.FinalVideoURL, job.FinalVideoPath, job.ErrorMessage, job.NotifyChatID,
		job.CancelRequested, job.Notified, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *videoJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.VideoJob, error) {
	q := `SELECT ` + videoJobColumns + ` FROM video_jobs WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanVideoJob(row)
}

// FetchAndMarkProcessing atomically claims the oldest queued job. The ULID job
// id is time-ordered, so ORDER BY id is creation order.
func (r *videoJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.VideoJob, error) {
	var job *model.VideoJob

	err := r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		const fetchQuery = `
SELECT ` + videoJobColumns + `
FROM video_jobs
WHERE status = 'queued'
ORDER BY id
LIMIT 1
FOR UPDATE SKIP LOCKED;`

		row, err := pickRow(ctx, r.pool, tx, fetchQuery)
		if err != nil {
			return err
		}
		claimed, err := scanVideoJob(row)
		if err != nil {
			return err
		}

		claimed.Status = model.VideoJobStatusProcessing
		claimed.CurrentStage = "Starting video generation..."
		if err := r.Save(ctx, tx, claimed); err != nil {
			return err
		}
		job = claimed
		return nil
	})

	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	return job, err
}

func (r *videoJobRepo) Touch(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE video_jobs SET updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *videoJobRepo) RequestCancel(ctx context.Context, tx repository.Tx, id string) error {
	// Queued jobs flip straight to cancelled; a processing job only gets the
	// flag and the running worker persists the terminal state itself.
	const q = `
UPDATE video_jobs SET
  cancel_requested = TRUE,
  status = CASE WHEN status = 'queued' THEN 'cancelled' ELSE status END,
  current_stage = CASE WHEN status = 'queued' THEN 'Cancelled' ELSE current_stage END,
  updated_at = NOW()
WHERE id = $1 AND status IN ('queued', 'processing');`

	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		// Either unknown or already terminal; disambiguate for the caller.
		if _, err := r.FindByID(ctx, nil, id); err != nil {
			return err
		}
		return domain.ErrJobTerminal
	}
	return nil
}

func (r *videoJobRepo) CancelRequested(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT cancel_requested FROM video_jobs WHERE id=$1;`, id)
	if err != nil {
		return false, err
	}
	var flag bool
	if err := row.Scan(&flag); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, domain.ErrReadDatabaseRow
	}
	return flag, nil
}

func (r *videoJobRepo) RequeueStale(ctx context.Context, tx repository.Tx, cutoff time.Time) (int, error) {
	const q = `
UPDATE video_jobs SET
  status = 'queued',
  current_stage = 'Re-queued after worker restart',
  updated_at = NOW()
WHERE status = 'processing' AND updated_at < $1;`

	tag, err := execSQL(ctx, r.pool, tx, q, cutoff)
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}

func (r *videoJobRepo) ListTerminalUnnotified(ctx context.Context, tx repository.Tx, limit int) ([]*model.VideoJob, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT ` + videoJobColumns + `
FROM video_jobs
WHERE status IN ('completed', 'failed', 'cancelled')
  AND notify_chat_id <> 0
  AND NOT notified
ORDER BY updated_at
LIMIT $1;`

	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.VideoJob
	for rows.Next() {
		j, err := scanVideoJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *videoJobRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT status, COUNT(*) FROM video_jobs GROUP BY status;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[status] = n
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVideoJob(row rowScanner) (*model.VideoJob, error) {
	j := &model.VideoJob{}
	var statusStr string
	err := row.Scan(
		&j.ID, &j.ItineraryID, &j.Destination, &j.TotalDays, &j.UserPhotoURL,
		&statusStr, &j.Progress, &j.CurrentDay, &j.CompletedDays, &j.CurrentStage,
		&j.FinalVideoURL, &j.FinalVideoPath, &j.ErrorMessage, &j.NotifyChatID,
		&j.CancelRequested, &j.Notified, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	j.Status = model.VideoJobStatus(statusStr)
	return j, nil
}
