package dto

import (
	"time"

	"github.com/dentalia/insumos-api/internal/domain/entity"
)

// RegisterClinicRequest body para POST /api/clinics.
type RegisterClinicRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ClinicResponse clínica en respuestas. Incluye la ubicación por defecto que se
// crea junto con la clínica.
type ClinicResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Email              string            `json:"email,omitempty"`
	Phone              string            `json:"phone,omitempty"`
	SubscriptionActive bool              `json:"subscription_active"`
	SubscriptionUntil  *time.Time        `json:"subscription_until,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	DefaultLocation    *LocationResponse `json:"default_location,omitempty"`
}

// ToClinicResponse mapea la entidad a su DTO.
func ToClinicResponse(c *entity.Clinic) *ClinicResponse {
	return &ClinicResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Email:              c.Email,
		Phone:              c.Phone,
		SubscriptionActive: c.SubscriptionActive,
		SubscriptionUntil:  c.SubscriptionUntil,
		CreatedAt:          c.CreatedAt,
	}
}

// SubscriptionWebhookRequest body del webhook del colaborador de facturación
// (POST /api/webhooks/subscription).
type SubscriptionWebhookRequest struct {
	ClinicID string     `json:"clinic_id"`
	Active   bool       `json:"active"`
	Until    *time.Time `json:"until,omitempty"` // null = sin vencimiento
}
