package repository

import (
	"context"
	"time"

	"github.com/dentalia/insumos-api/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// MovementAggregate total acumulado por insumo y ubicación para reportes de costo.
type MovementAggregate struct {
	ItemID     string
	ItemName   string
	LocationID string
	Quantity   int64           // delta neto sobre la ubicación
	TotalCost  decimal.Decimal // suma de costos de los movimientos
}

// StockMovementRepository define el puerto de persistencia del log de auditoría.
// Append-only: no expone update ni delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// ListByClinic lista movimientos por clínica en un rango de fechas, más reciente primero.
	ListByClinic(ctx context.Context, clinicID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// AggregateByItemLocation agrega deltas y costos por (insumo, ubicación).
	// Una fila TRANSFER/ASSIGN cuenta en ambos extremos: resta en origen, suma en destino.
	AggregateByItemLocation(ctx context.Context, clinicID string, from, to *time.Time) ([]MovementAggregate, error)
}
