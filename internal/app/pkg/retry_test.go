package pkg

import (
	"fmt"
	"testing"
	"time"

	appError "github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestRetryStopsOnNonTransientError(t *testing.T) {
	calls := 0
	err := Retry(3, time.Millisecond, func() error {
		calls++
		return appError.NewBadRequestError("bad input")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call for non-transient error, got %d", calls)
	}
}

func TestRetryRetriesTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(3, time.Millisecond, func() error {
		calls++
		return &pgconn.PgError{Code: "40001"}
	})

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	calls := 0
	err := Retry(3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return &pgconn.PgError{Code: "40P01"}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"constraint violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"transient app error", appError.NewAppError(503, "unavailable").WithCode(appError.CodeTransientFailure), true},
		{"conflict app error", appError.NewConflictError("used").WithCode(appError.CodeAlreadyUsed), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
