package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tripreel/internal/domain"
	"tripreel/internal/domain/model"
	"tripreel/internal/domain/ports/repository"
)

var _ repository.DayClipRepository = (*dayClipRepo)(nil)

type dayClipRepo struct {
	pool *pgxpool.Pool
}

func NewDayClipRepo(pool *pgxpool.Pool) *dayClipRepo {
	return &dayClipRepo{pool: pool}
}

const dayClipColumns = `job_id, day_number, task_id, photos, prompt, status, video_url, local_path, error_message, created_at, updated_at`

func (r *dayClipRepo) Save(ctx context.Context, tx repository.Tx, clip *model.DayClip) error {
	if clip.CreatedAt.IsZero() {
		clip.CreatedAt = time.Now()
	}
	clip.UpdatedAt = time.Now()

	photos, err := json.Marshal(clip.Photos)
	if err != nil {
		return domain.ErrInvalidArgument
	}

	const q = `
INSERT INTO day_clips (` + dayClipColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (job_id, day_number) DO UPDATE SET
  task_id = EXCLUDED.task_id,
  photos = EXCLUDED.photos,
  prompt = EXCLUDED.prompt,
  status = EXCLUDED.status,
  video_url = EXCLUDED.video_url,
  local_path = EXCLUDED.local_path,
  error_message = EXCLUDED.error_message,
  updated_at = EXCLUDED.updated_at;`

	_, err = execSQL(ctx, r.pool, tx, q,
		clip.JobID, clip.DayNumber, clip.TaskID, photos, clip.Prompt,
		clip.Status, clip.VideoURL, clip.LocalPath, clip.ErrorMessage,
		clip.CreatedAt, clip.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *dayClipRepo) Find(ctx context.Context, tx repository.Tx, jobID string, dayNumber int) (*model.DayClip, error) {
	const q = `SELECT ` + dayClipColumns + ` FROM day_clips WHERE job_id=$1 AND day_number=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, jobID, dayNumber)
	if err != nil {
		return nil, err
	}
	return scanDayClip(row)
}

func (r *dayClipRepo) ListByJob(ctx context.Context, tx repository.Tx, jobID string) ([]*model.DayClip, error) {
	const q = `SELECT ` + dayClipColumns + ` FROM day_clips WHERE job_id=$1 ORDER BY day_number;`
	rows, err := queryRows(ctx, r.pool, tx, q, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.DayClip
	for rows.Next() {
		c, err := scanDayClip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *dayClipRepo) CountDownloaded(ctx context.Context, tx repository.Tx, jobID string) (int, error) {
	row, err := pickRow(ctx, r.pool, tx,
		`SELECT COUNT(*) FROM day_clips WHERE job_id=$1 AND status='downloaded';`, jobID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *dayClipRepo) CountAll(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM day_clips;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func scanDayClip(row rowScanner) (*model.DayClip, error) {
	c := &model.DayClip{}
	var statusStr string
	var photos []byte
	err := row.Scan(
		&c.JobID, &c.DayNumber, &c.TaskID, &photos, &c.Prompt,
		&statusStr, &c.VideoURL, &c.LocalPath, &c.ErrorMessage,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	c.Status = model.DayClipStatus(statusStr)
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &c.Photos); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	return c, nil
}
