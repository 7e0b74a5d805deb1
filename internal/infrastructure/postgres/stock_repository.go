package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dentalia/insumos-api/internal/domain/entity"
	"github.com/dentalia/insumos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `item_id, location_id, quantity, threshold, updated_at`

// Get devuelve la fila o nil si no existe.
func (r *StockRepo) Get(ctx context.Context, itemID, locationID string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE item_id = $1 AND location_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&s.ItemID, &s.LocationID, &s.Quantity, &s.Threshold, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene la existencia bloqueando la fila (SELECT FOR UPDATE).
// Si la fila no existe devuelve una fila en cero: la inserción posterior la
// resuelve AddQuantity de forma atómica, no hace falta lock previo.
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&s.ItemID, &s.LocationID, &s.Quantity, &s.Threshold, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ItemID: itemID, LocationID: locationID, Quantity: 0}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// LockPair bloquea las filas del insumo en ambas ubicaciones en orden ascendente
// de location_id. El orden global fijo evita el deadlock entre dos traslados en
// direcciones opuestas sobre el mismo par.
func (r *StockRepo) LockPair(ctx context.Context, itemID, locationA, locationB string) error {
	query := `
		SELECT item_id FROM stock
		WHERE item_id = $1 AND location_id = ANY($2)
		ORDER BY location_id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, itemID, []string{locationA, locationB})
	if err != nil {
		return fmt.Errorf("lock stock pair: %w", err)
	}
	rows.Close()
	return rows.Err()
}

// AddQuantity acumula delta en la fila, creándola si no existe. El upsert es
// atómico (insert-or-accumulate): dos recepciones concurrentes sobre un par
// inexistente terminan en UNA fila con la suma de ambas, nunca en dos filas.
func (r *StockRepo) AddQuantity(ctx context.Context, itemID, locationID string, delta int64) error {
	query := `
		INSERT INTO stock (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, itemID, locationID, delta)
	if err != nil {
		return fmt.Errorf("add stock quantity: %w", err)
	}
	return nil
}

// Subtract descuenta qty con guarda de suficiencia. La fila que llega a 0 se
// conserva (política de zeroing: retener, nunca borrar).
func (r *StockRepo) Subtract(ctx context.Context, itemID, locationID string, qty int64) (bool, error) {
	query := `
		UPDATE stock SET quantity = quantity - $3, updated_at = now()
		WHERE item_id = $1 AND location_id = $2 AND quantity >= $3`
	cmd, err := r.q.Exec(ctx, query, itemID, locationID, qty)
	if err != nil {
		return false, fmt.Errorf("subtract stock: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// SetThreshold fija o limpia el umbral de stock bajo del par; crea la fila en
// cero si aún no existe para que el umbral quede registrado.
func (r *StockRepo) SetThreshold(ctx context.Context, itemID, locationID string, threshold *int64) error {
	query := `
		INSERT INTO stock (item_id, location_id, quantity, threshold, updated_at)
		VALUES ($1, $2, 0, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET threshold = EXCLUDED.threshold, updated_at = now()`
	_, err := r.q.Exec(ctx, query, itemID, locationID, threshold)
	if err != nil {
		return fmt.Errorf("set stock threshold: %w", err)
	}
	return nil
}

// HasStockForItem informa si queda cantidad > 0 del insumo en alguna ubicación.
func (r *StockRepo) HasStockForItem(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock WHERE item_id = $1 AND quantity > 0)`, itemID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has stock for item: %w", err)
	}
	return exists, nil
}

// HasStockForLocation informa si queda cantidad > 0 en la ubicación.
func (r *StockRepo) HasStockForLocation(ctx context.Context, locationID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock WHERE location_id = $1 AND quantity > 0)`, locationID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has stock for location: %w", err)
	}
	return exists, nil
}
