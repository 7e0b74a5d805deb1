package dto

import (
	"time"

	"github.com/dentalia/insumos-api/internal/domain/entity"
)

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name string `json:"name"`
}

// UpdateLocationRequest body para PUT /api/locations/:id.
type UpdateLocationRequest struct {
	Name string `json:"name"`
}

// LocationResponse ubicación en respuestas.
type LocationResponse struct {
	ID        string    `json:"id"`
	ClinicID  string    `json:"clinic_id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToLocationResponse mapea la entidad a su DTO.
func ToLocationResponse(location *entity.Location) *LocationResponse {
	return &LocationResponse{
		ID:        location.ID,
		ClinicID:  location.ClinicID,
		Name:      location.Name,
		IsDefault: location.IsDefault,
		CreatedAt: location.CreatedAt,
		UpdatedAt: location.UpdatedAt,
	}
}
