package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentalia/insumos-api/internal/application/dto"
	"github.com/dentalia/insumos-api/internal/domain"
	"github.com/dentalia/insumos-api/internal/domain/entity"
	"github.com/dentalia/insumos-api/internal/domain/repository"
)

// CategoryUseCase casos de uso para categorías de insumos.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría.
func (uc *CategoryUseCase) Create(ctx context.Context, clinicID string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	category := &entity.Category{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return dto.ToCategoryResponse(category), nil
}

// List lista las categorías de la clínica.
func (uc *CategoryUseCase) List(ctx context.Context, clinicID string, limit, offset int) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListByClinic(ctx, clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	categories := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		categories = append(categories, *dto.ToCategoryResponse(c))
	}
	return categories, nil
}

// Delete elimina una categoría de la clínica.
func (uc *CategoryUseCase) Delete(ctx context.Context, clinicID, id string) error {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}
	if category.ClinicID != clinicID {
		return domain.ErrCrossAccount
	}
	return uc.repo.Delete(ctx, id)
}

// SupplierUseCase casos de uso para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, clinicID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return dto.ToSupplierResponse(supplier), nil
}

// List lista los proveedores de la clínica.
func (uc *SupplierUseCase) List(ctx context.Context, clinicID string, limit, offset int) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.ListByClinic(ctx, clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	suppliers := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		suppliers = append(suppliers, *dto.ToSupplierResponse(s))
	}
	return suppliers, nil
}

// Delete elimina un proveedor de la clínica.
func (uc *SupplierUseCase) Delete(ctx context.Context, clinicID, id string) error {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.ErrNotFound
	}
	if supplier.ClinicID != clinicID {
		return domain.ErrCrossAccount
	}
	return uc.repo.Delete(ctx, id)
}
