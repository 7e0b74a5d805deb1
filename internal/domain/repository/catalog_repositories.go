package repository

import (
	"context"
	"time"

	"github.com/dentalia/insumos-api/internal/domain/entity"
)

// CategoryRepository puerto de persistencia para categorías.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	ListByClinic(ctx context.Context, clinicID string, limit, offset int) ([]*entity.Category, error)
	Delete(ctx context.Context, id string) error
}

// SupplierRepository puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	ListByClinic(ctx context.Context, clinicID string, limit, offset int) ([]*entity.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// ClinicRepository puerto de persistencia para clínicas (tenants).
type ClinicRepository interface {
	Create(ctx context.Context, clinic *entity.Clinic) error
	GetByID(ctx context.Context, id string) (*entity.Clinic, error)
	// SetSubscription la invoca el webhook del colaborador de facturación.
	SetSubscription(ctx context.Context, clinicID string, active bool, until *time.Time) error
	// HasActiveSubscription informa si la clínica puede operar (flag y vencimiento).
	HasActiveSubscription(ctx context.Context, clinicID string) (bool, error)
	// ListActive devuelve las clínicas con suscripción vigente (para el barrido de alertas).
	ListActive(ctx context.Context) ([]*entity.Clinic, error)
}
