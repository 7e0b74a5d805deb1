package postgres

import (
	"context"
	"fmt"

	"github.com/dentalia/insumos-api/internal/domain/repository"
)

var _ repository.StockQueryRepository = (*StockQueryRepo)(nil)

// StockQueryRepo capa de consulta de solo lectura sobre stock + catálogo.
// Lee estado confirmado desde el pool; no participa en transacciones ni toma locks.
type StockQueryRepo struct {
	q Querier
}

// NewStockQueryRepository construye el adaptador de consultas.
func NewStockQueryRepository(q Querier) *StockQueryRepo {
	return &StockQueryRepo{q: q}
}

// BelowThreshold devuelve las filas con quantity <= threshold de la clínica,
// mayor déficit primero. locationID vacío = todas las ubicaciones.
func (r *StockQueryRepo) BelowThreshold(ctx context.Context, clinicID, locationID string) ([]repository.LowStockRow, error) {
	query := `
		SELECT s.item_id, i.name, i.unit, s.location_id, l.name, s.quantity, s.threshold
		FROM stock s
		JOIN items i     ON i.id = s.item_id
		JOIN locations l ON l.id = s.location_id
		WHERE i.clinic_id = $1
		  AND s.threshold IS NOT NULL
		  AND s.quantity <= s.threshold`
	args := []any{clinicID}
	if locationID != "" {
		query += ` AND s.location_id = $2`
		args = append(args, locationID)
	}
	query += ` ORDER BY (s.threshold - s.quantity) DESC, i.name`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("below threshold: %w", err)
	}
	defer rows.Close()

	var list []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ItemID, &row.ItemName, &row.Unit,
			&row.LocationID, &row.LocationName, &row.Quantity, &row.Threshold); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// TotalsByItem devuelve la cantidad del insumo en cada ubicación de la clínica.
func (r *StockQueryRepo) TotalsByItem(ctx context.Context, clinicID, itemID string) ([]repository.ItemLocationTotal, error) {
	query := `
		SELECT s.location_id, l.name, s.quantity
		FROM stock s
		JOIN items i     ON i.id = s.item_id
		JOIN locations l ON l.id = s.location_id
		WHERE i.clinic_id = $1 AND s.item_id = $2
		ORDER BY l.name`
	rows, err := r.q.Query(ctx, query, clinicID, itemID)
	if err != nil {
		return nil, fmt.Errorf("totals by item: %w", err)
	}
	defer rows.Close()

	var list []repository.ItemLocationTotal
	for rows.Next() {
		var t repository.ItemLocationTotal
		if err := rows.Scan(&t.LocationID, &t.LocationName, &t.Quantity); err != nil {
			return nil, fmt.Errorf("scan item total: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
