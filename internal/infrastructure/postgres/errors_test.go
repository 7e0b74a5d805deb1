package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgError(code string) error {
	return &pgconn.PgError{Code: code, Message: "test"}
}

func TestIsTransient_ErroresDeConexion(t *testing.T) {
	transitorios := []error{
		pgError("08000"), // connection_exception
		pgError("08006"), // connection_failure
		pgError("57P01"), // admin_shutdown
		pgError("57P02"), // crash_shutdown
		pgError("57P03"), // cannot_connect_now
		pgError("40001"), // serialization_failure
		pgError("40P01"), // deadlock_detected
		pgError("55P03"), // lock_not_available (lock_timeout)
		&net.OpError{Op: "dial", Err: errors.New("connection refused")},
		fmt.Errorf("begin transaction: %w", pgError("08006")), // envuelto
	}
	for _, err := range transitorios {
		assert.True(t, isTransient(err), "debe reintentarse: %v", err)
	}
}

func TestIsTransient_ErroresPermanentes(t *testing.T) {
	permanentes := []error{
		nil,
		pgError("23505"), // unique_violation
		pgError("23514"), // check_violation (quantity >= 0)
		pgError("23503"), // foreign_key_violation
		pgError("42P01"), // undefined_table
		pgError("42601"), // syntax_error
		pgError("22001"), // string_data_right_truncation
		errors.New("error de dominio cualquiera"),
	}
	for _, err := range permanentes {
		assert.False(t, isTransient(err), "no debe reintentarse: %v", err)
	}
}

func TestIsIntegrityViolation(t *testing.T) {
	assert.True(t, isIntegrityViolation(pgError("23505")))
	assert.True(t, isIntegrityViolation(pgError("23514")))
	assert.True(t, isIntegrityViolation(pgError("42P01")))
	assert.False(t, isIntegrityViolation(pgError("08006")))
	assert.False(t, isIntegrityViolation(errors.New("otro")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(pgError("23505")))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert item: %w", pgError("23505"))))
	assert.False(t, isUniqueViolation(pgError("23514")))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}

func TestIsAcquireTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	assert.True(t, isAcquireTimeout(ctx.Err()))
	assert.True(t, isAcquireTimeout(fmt.Errorf("begin: %w", context.DeadlineExceeded)))
	assert.False(t, isAcquireTimeout(context.Canceled))
	assert.False(t, isAcquireTimeout(pgError("08006")))
}
