package postgres

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Clasificación de errores de PostgreSQL para la política de reintentos del TxRunner.
// Solo los errores transitorios (conexión) se reintentan; las violaciones de
// integridad indican un fallo de lógica o de datos y se propagan de inmediato.

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// isIntegrityViolation cubre la clase 23 (integridad: not-null, check, FK, unique)
// y la clase 42 (objeto inexistente / error de sintaxis). Nunca se reintentan.
func isIntegrityViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) < 2 {
			return false
		}
		class := pgErr.Code[:2]
		return class == "23" || class == "42"
	}
	return false
}

// isTransient informa si el fallo es de conectividad y vale la pena reintentar
// la transacción completa: clase 08 (connection exception), apagado del servidor
// (57P01/57P02/57P03), errores de red o un fallo marcado como seguro por pgconn.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if isIntegrityViolation(err) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return true
		}
		switch pgErr.Code {
		case "57P01", "57P02", "57P03", "40001", "40P01", "55P03":
			// shutdown del servidor, serialization_failure, deadlock_detected,
			// lock_not_available (expiró lock_timeout)
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// isAcquireTimeout detecta el agotamiento del timeout de adquisición del pool.
func isAcquireTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
