package dto

import (
	"time"

	"github.com/dentalia/insumos-api/internal/domain/entity"
)

// CreateCategoryRequest body para POST /api/categories.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse categoría en respuestas.
type CategoryResponse struct {
	ID        string    `json:"id"`
	ClinicID  string    `json:"clinic_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCategoryResponse mapea la entidad a su DTO.
func ToCategoryResponse(c *entity.Category) *CategoryResponse {
	return &CategoryResponse{ID: c.ID, ClinicID: c.ClinicID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID        string    `json:"id"`
	ClinicID  string    `json:"clinic_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToSupplierResponse mapea la entidad a su DTO.
func ToSupplierResponse(s *entity.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID: s.ID, ClinicID: s.ClinicID, Name: s.Name,
		Email: s.Email, Phone: s.Phone, CreatedAt: s.CreatedAt,
	}
}
