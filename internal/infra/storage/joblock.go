package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"tripreel/internal/domain"
)

// JobLock guards a job's clip directory with a file lock so two worker
// processes sharing the same storage never write clips for one job at once.
type JobLock struct {
	lock *flock.Flock
}

// AcquireJobLock creates the clip directory and takes its lock without
// blocking. domain.ErrLockNotAcquired means another process holds the job.
func AcquireJobLock(clipDir string) (*JobLock, error) {
	if err := os.MkdirAll(clipDir, 0o755); err != nil {
		return nil, fmt.Errorf("create clip dir %q: %w", clipDir, err)
	}
	l := flock.New(filepath.Join(clipDir, ".lock"))
	ok, err := l.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrLockNotAcquired
	}
	return &JobLock{lock: l}, nil
}

func (j *JobLock) Release() error {
	if j == nil || j.lock == nil {
		return nil
	}
	return j.lock.Unlock()
}
