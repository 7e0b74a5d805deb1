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

// ItemUseCase casos de uso de catálogo para insumos. Las cantidades nunca se
// tocan aquí: eso es del motor de movimientos.
type ItemUseCase struct {
	repo      repository.ItemRepository
	stockRepo repository.StockRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, stockRepo repository.StockRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, stockRepo: stockRepo}
}

// Create crea un nuevo insumo en el catálogo de la clínica.
func (uc *ItemUseCase) Create(ctx context.Context, clinicID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || in.CostPerUnit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Barcode != "" {
		existing, err := uc.repo.GetByBarcode(ctx, clinicID, in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicateIdentifier
		}
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		ClinicID:    clinicID,
		Name:        in.Name,
		Unit:        in.Unit,
		CostPerUnit: in.CostPerUnit,
		Barcode:     in.Barcode,
		CategoryID:  in.CategoryID,
		SupplierID:  in.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// GetByID obtiene un insumo de la clínica.
func (uc *ItemUseCase) GetByID(ctx context.Context, clinicID, id string) (*dto.ItemResponse, error) {
	item, err := uc.ownedItem(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// Update actualiza los atributos de catálogo del insumo (incluido el costo por
// unidad: el historial del ledger lee el costo vigente en cada movimiento).
func (uc *ItemUseCase) Update(ctx context.Context, clinicID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.ownedItem(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.Barcode != nil {
		item.Barcode = *in.Barcode
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		item.SupplierID = *in.SupplierID
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	if in.CostPerUnit != nil {
		if in.CostPerUnit.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if err := uc.repo.UpdateCost(ctx, id, *in.CostPerUnit); err != nil {
			return nil, err
		}
		item.CostPerUnit = *in.CostPerUnit
	}
	return dto.ToItemResponse(item), nil
}

// List lista los insumos de la clínica con paginación.
func (uc *ItemUseCase) List(ctx context.Context, clinicID string, limit, offset int) ([]dto.ItemResponse, error) {
	list, err := uc.repo.ListByClinic(ctx, clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, item := range list {
		items = append(items, *dto.ToItemResponse(item))
	}
	return items, nil
}

// Delete elimina un insumo del catálogo. Se rechaza mientras exista una fila de
// stock con cantidad > 0 que lo referencie; el log de auditoría sobrevive al
// borrado (referencia soft por id).
func (uc *ItemUseCase) Delete(ctx context.Context, clinicID, id string) error {
	if _, err := uc.ownedItem(ctx, clinicID, id); err != nil {
		return err
	}
	hasStock, err := uc.stockRepo.HasStockForItem(ctx, id)
	if err != nil {
		return err
	}
	if hasStock {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ItemUseCase) ownedItem(ctx context.Context, clinicID, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.ClinicID != clinicID {
		return nil, domain.ErrCrossAccount
	}
	return item, nil
}
