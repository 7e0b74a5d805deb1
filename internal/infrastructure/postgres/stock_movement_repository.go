package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dentalia/insumos-api/internal/domain/entity"
	"github.com/dentalia/insumos-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del log de auditoría sobre PostgreSQL.
// Solo INSERT y SELECT: la tabla es append-only por contrato.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, clinic_id, item_id, from_location_id, location_id, kind, quantity, direction, unit_cost, total_cost, reference, created_at, created_by`

// Create persiste un movimiento confirmado.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	reference := (*string)(nil)
	if movement.Reference != "" {
		reference = &movement.Reference
	}
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ClinicID, movement.ItemID, movement.FromLocationID,
		movement.LocationID, movement.Kind, movement.Quantity, movement.Direction,
		movement.UnitCost, movement.TotalCost, reference, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByClinic lista movimientos de la clínica en un rango de fechas, más reciente primero.
func (r *StockMovementRepo) ListByClinic(ctx context.Context, clinicID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE clinic_id = $1`
	args := []any{clinicID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by clinic: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// AggregateByItemLocation agrega deltas y costos por (insumo, ubicación).
// Las filas de traslado (from_location_id no nulo) cuentan en ambos extremos:
// restan en el origen y suman en el destino.
func (r *StockMovementRepo) AggregateByItemLocation(ctx context.Context, clinicID string, from, to *time.Time) ([]repository.MovementAggregate, error) {
	query := `
		WITH effects AS (
			SELECT item_id,
			       location_id,
			       CASE WHEN direction = 'increase' THEN quantity ELSE -quantity END AS delta,
			       CASE WHEN direction = 'increase' THEN total_cost ELSE -total_cost END AS total_cost,
			       created_at
			FROM stock_movements
			WHERE clinic_id = $1
			UNION ALL
			SELECT item_id,
			       from_location_id AS location_id,
			       -quantity AS delta,
			       -total_cost AS total_cost,
			       created_at
			FROM stock_movements
			WHERE clinic_id = $1 AND from_location_id IS NOT NULL
		)
		SELECT e.item_id, i.name, e.location_id,
		       SUM(e.delta) AS quantity, SUM(e.total_cost) AS total_cost
		FROM effects e
		JOIN items i ON i.id = e.item_id
		WHERE ($2::timestamptz IS NULL OR e.created_at >= $2)
		  AND ($3::timestamptz IS NULL OR e.created_at <= $3)
		GROUP BY e.item_id, i.name, e.location_id
		ORDER BY i.name, e.location_id`
	rows, err := r.q.Query(ctx, query, clinicID, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate movements: %w", err)
	}
	defer rows.Close()
	var list []repository.MovementAggregate
	for rows.Next() {
		var a repository.MovementAggregate
		if err := rows.Scan(&a.ItemID, &a.ItemName, &a.LocationID, &a.Quantity, &a.TotalCost); err != nil {
			return nil, fmt.Errorf("scan movement aggregate: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var reference, createdBy *string
	err := row.Scan(
		&m.ID, &m.ClinicID, &m.ItemID, &m.FromLocationID, &m.LocationID,
		&m.Kind, &m.Quantity, &m.Direction, &m.UnitCost, &m.TotalCost,
		&reference, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if reference != nil {
		m.Reference = *reference
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
