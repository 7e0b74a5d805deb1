package postgres

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentalia/insumos-api/internal/application/inventory"
	"github.com/dentalia/insumos-api/internal/domain"
	"github.com/dentalia/insumos-api/internal/domain/repository"
	"github.com/dentalia/insumos-api/pkg/config"
	"github.com/dentalia/insumos-api/pkg/logger"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con una única
// política de reintentos: ante un error transitorio de conectividad se reintenta
// el cuerpo COMPLETO (backoff exponencial acotado); las violaciones de integridad
// y los errores de dominio se propagan sin reintento porque reintentar no puede
// arreglarlos. Rollback garantizado en todo camino de salida.
type TxRunner struct {
	pool *pgxpool.Pool
	cfg  config.DBConfig
	log  *logger.Logger
}

// NewTxRunner construye el runner con el pool y la política de reintentos de la config.
func NewTxRunner(pool *pgxpool.Pool, cfg config.DBConfig, log *logger.Logger) *TxRunner {
	return &TxRunner{pool: pool, cfg: cfg, log: log.Component("tx_runner")}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si los reintentos se agotan por errores transitorios, devuelve domain.ErrUnavailable.
func (r *TxRunner) Run(ctx context.Context, fn inventory.TxBody) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isTransient(err) && !isAcquireTimeout(err) {
			return backoff.Permanent(err)
		}
		r.log.Warn().Err(err).Int("attempt", attempt).Msg("transacción transitoriamente fallida, reintentando")
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.cfg.RetryBaseDelay
	policy.MaxInterval = r.cfg.RetryMaxDelay
	policy.Multiplier = 2

	maxRetries := uint64(0)
	if r.cfg.RetryMaxAttempts > 1 {
		maxRetries = uint64(r.cfg.RetryMaxAttempts - 1)
	}
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx))
	if err == nil {
		return nil
	}
	if isTransient(err) || isAcquireTimeout(err) {
		r.log.Error().Err(err).Int("attempts", attempt).Msg("reintentos agotados")
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return err
}

// runOnce una ejecución de la transacción: adquirir conexión (con timeout),
// acotar la espera de locks, ejecutar fn y Commit/Rollback.
func (r *TxRunner) runOnce(ctx context.Context, fn inventory.TxBody) error {
	acquireCtx, cancel := context.WithTimeout(ctx, r.cfg.AcquireTimeout)
	tx, err := r.pool.Begin(acquireCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Espera de row-locks acotada: pasado el límite la operación falla en vez de colgarse.
	lockTimeout := r.cfg.AcquireTimeout.Milliseconds()
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", lockTimeout)); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	repos := inventory.TxRepos{
		Movements: NewStockMovementRepository(tx),
		Stock:     NewStockRepository(tx),
		Items:     NewItemRepository(tx),
		Locations: NewLocationRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Queries devuelve repos de solo lectura sobre el pool (fuera de transacción),
// para la capa de consultas que solo lee estado confirmado.
func (r *TxRunner) Queries() (repository.StockQueryRepository, repository.StockMovementRepository) {
	return NewStockQueryRepository(r.pool), NewStockMovementRepository(r.pool)
}
