package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dentalia/insumos-api/internal/domain/entity"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name        string          `json:"name"`
	Unit        string          `json:"unit,omitempty"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Barcode     string          `json:"barcode,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	SupplierID  string          `json:"supplier_id,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id. Campos nil no se tocan.
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit,omitempty"`
	Barcode     *string          `json:"barcode,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
	SupplierID  *string          `json:"supplier_id,omitempty"`
}

// ItemResponse insumo en respuestas.
type ItemResponse struct {
	ID          string          `json:"id"`
	ClinicID    string          `json:"clinic_id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit,omitempty"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Barcode     string          `json:"barcode,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToItemResponse mapea la entidad a su DTO.
func ToItemResponse(item *entity.Item) *ItemResponse {
	return &ItemResponse{
		ID:          item.ID,
		ClinicID:    item.ClinicID,
		Name:        item.Name,
		Unit:        item.Unit,
		CostPerUnit: item.CostPerUnit,
		Barcode:     item.Barcode,
		CategoryID:  item.CategoryID,
		SupplierID:  item.SupplierID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
