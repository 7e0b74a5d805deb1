package repository

import (
	"context"

	"github.com/dentalia/insumos-api/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// ItemRepository define el puerto de persistencia para insumos del catálogo.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetByBarcode busca por código de escaneo dentro de la clínica; nil si no hay.
	GetByBarcode(ctx context.Context, clinicID, barcode string) (*entity.Item, error)
	// GetByNameKey busca por la clave normalizada de nombre (match idempotente).
	GetByNameKey(ctx context.Context, clinicID, nameKey string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	// UpdateCost actualiza solo el costo por unidad (gestión de catálogo).
	UpdateCost(ctx context.Context, itemID string, cost decimal.Decimal) error
	ListByClinic(ctx context.Context, clinicID string, limit, offset int) ([]*entity.Item, error)
	Delete(ctx context.Context, id string) error
}
