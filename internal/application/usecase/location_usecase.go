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

// LocationUseCase casos de uso de catálogo para sedes y operatorios.
type LocationUseCase struct {
	repo      repository.LocationRepository
	stockRepo repository.StockRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, stockRepo repository.StockRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo, stockRepo: stockRepo}
}

// Create crea una nueva ubicación en la clínica.
func (uc *LocationUseCase) Create(ctx context.Context, clinicID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return dto.ToLocationResponse(location), nil
}

// GetByID obtiene una ubicación de la clínica.
func (uc *LocationUseCase) GetByID(ctx context.Context, clinicID, id string) (*dto.LocationResponse, error) {
	location, err := uc.ownedLocation(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	return dto.ToLocationResponse(location), nil
}

// Update renombra la ubicación. La ubicación por defecto también puede
// renombrarse; lo que no puede es eliminarse.
func (uc *LocationUseCase) Update(ctx context.Context, clinicID, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.ownedLocation(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	location.Name = in.Name
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	return dto.ToLocationResponse(location), nil
}

// List lista las ubicaciones de la clínica.
func (uc *LocationUseCase) List(ctx context.Context, clinicID string, limit, offset int) ([]dto.LocationResponse, error) {
	list, err := uc.repo.ListByClinic(ctx, clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	locations := make([]dto.LocationResponse, 0, len(list))
	for _, location := range list {
		locations = append(locations, *dto.ToLocationResponse(location))
	}
	return locations, nil
}

// Delete elimina una ubicación. Se rechaza si es la ubicación por defecto de la
// clínica o si todavía guarda existencias con cantidad > 0.
func (uc *LocationUseCase) Delete(ctx context.Context, clinicID, id string) error {
	location, err := uc.ownedLocation(ctx, clinicID, id)
	if err != nil {
		return err
	}
	if location.IsDefault {
		return domain.ErrConflict
	}
	hasStock, err := uc.stockRepo.HasStockForLocation(ctx, id)
	if err != nil {
		return err
	}
	if hasStock {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *LocationUseCase) ownedLocation(ctx context.Context, clinicID, id string) (*entity.Location, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	if location.ClinicID != clinicID {
		return nil, domain.ErrCrossAccount
	}
	return location, nil
}
