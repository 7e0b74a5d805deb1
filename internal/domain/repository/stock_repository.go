package repository

import (
	"context"

	"github.com/dentalia/insumos-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar existencias por insumo+ubicación.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la fila o nil si no existe.
	Get(ctx context.Context, itemID, locationID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) y la devuelve; si no existe
	// devuelve una fila en cero sin bloquear (no hay nada que bloquear todavía).
	GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.Stock, error)
	// LockPair bloquea las filas de un mismo insumo en dos ubicaciones, siempre en
	// orden ascendente de ubicación para evitar deadlocks entre traslados opuestos.
	LockPair(ctx context.Context, itemID, locationA, locationB string) error
	// AddQuantity acumula delta > 0 de forma atómica: INSERT ... ON CONFLICT
	// DO UPDATE SET quantity = quantity + delta. Nunca dos filas para el mismo par.
	AddQuantity(ctx context.Context, itemID, locationID string, delta int64) error
	// Subtract descuenta qty solo si la fila existe y quantity >= qty;
	// devuelve false si la guarda falló (el caller ya validó bajo lock, esto es la
	// última línea de defensa junto al CHECK de la tabla).
	Subtract(ctx context.Context, itemID, locationID string, qty int64) (bool, error)
	SetThreshold(ctx context.Context, itemID, locationID string, threshold *int64) error
	// HasStockForItem / HasStockForLocation informan si queda cantidad > 0
	// referenciando el insumo o la ubicación (bloquean el borrado de catálogo).
	HasStockForItem(ctx context.Context, itemID string) (bool, error)
	HasStockForLocation(ctx context.Context, locationID string) (bool, error)
}

// LowStockRow es una fila del reporte de umbrales: existencia + metadatos de catálogo.
type LowStockRow struct {
	ItemID       string
	ItemName     string
	Unit         string
	LocationID   string
	LocationName string
	Quantity     int64
	Threshold    int64
}

// ItemLocationTotal cantidad actual de un insumo en una ubicación.
type ItemLocationTotal struct {
	LocationID   string
	LocationName string
	Quantity     int64
}

// StockQueryRepository puerto de solo lectura para la capa de reportes.
// Lee únicamente estado confirmado; no toma locks.
type StockQueryRepository interface {
	// BelowThreshold devuelve las filas con quantity <= threshold de la clínica.
	// locationID vacío = todas las ubicaciones.
	BelowThreshold(ctx context.Context, clinicID, locationID string) ([]LowStockRow, error)
	// TotalsByItem devuelve la cantidad del insumo en cada ubicación y permite
	// responder "cuánto hay en total del insumo X".
	TotalsByItem(ctx context.Context, clinicID, itemID string) ([]ItemLocationTotal, error)
}
