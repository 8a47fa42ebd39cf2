package pkg

import (
	"errors"
	"net"
	"time"

	appError "github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATEs that mean the transaction lost a race and is safe to
// rerun from scratch.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsTransient reports whether err is a contention or connectivity failure
// where retrying the whole operation can succeed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var appErr *appError.AppError
	if errors.As(err, &appErr) {
		return appErr.Code == appError.CodeTransientFailure
	}

	return false
}

// Retry runs fn up to attempts times, backing off linearly between transient
// failures. Non-transient errors abort immediately. Retry policy lives with
// the caller: fn itself must never loop.
func Retry(attempts int, backoff time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if i < attempts-1 {
			time.Sleep(backoff * time.Duration(i+1))
		}
	}
	return err
}
