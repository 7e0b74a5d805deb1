package repository

import (
	"context"

	"github.com/dentalia/insumos-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para sedes/operatorios.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	// GetDefault devuelve la ubicación protegida de la clínica (pool sin asignar).
	GetDefault(ctx context.Context, clinicID string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	ListByClinic(ctx context.Context, clinicID string, limit, offset int) ([]*entity.Location, error)
	Delete(ctx context.Context, id string) error
}
