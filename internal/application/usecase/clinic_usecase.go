package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentalia/insumos-api/internal/application/dto"
	"github.com/dentalia/insumos-api/internal/domain"
	"github.com/dentalia/insumos-api/internal/domain/entity"
	"github.com/dentalia/insumos-api/internal/domain/repository"
	"github.com/dentalia/insumos-api/pkg/logger"
)

// ClinicUseCase registro y consulta de clínicas (tenants).
type ClinicUseCase struct {
	clinics   repository.ClinicRepository
	locations repository.LocationRepository
	log       *logger.Logger
}

// NewClinicUseCase construye el caso de uso.
func NewClinicUseCase(clinics repository.ClinicRepository, locations repository.LocationRepository, log *logger.Logger) *ClinicUseCase {
	return &ClinicUseCase{clinics: clinics, locations: locations, log: log.Component("clinics")}
}

// Register crea la clínica y siembra su ubicación por defecto ("Área común"),
// el pool de insumos sin asignar. La ubicación protegida nace con la clínica y
// no puede eliminarse después.
func (uc *ClinicUseCase) Register(ctx context.Context, in dto.RegisterClinicRequest) (*dto.ClinicResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	clinic := &entity.Clinic{
		ID:                 uuid.New().String(),
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		SubscriptionActive: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.clinics.Create(ctx, clinic); err != nil {
		return nil, err
	}

	pool := &entity.Location{
		ID:        uuid.New().String(),
		ClinicID:  clinic.ID,
		Name:      entity.DefaultLocationName,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locations.Create(ctx, pool); err != nil {
		return nil, err
	}
	uc.log.Info().Str("clinic_id", clinic.ID).Str("name", clinic.Name).Msg("clínica registrada")

	resp := dto.ToClinicResponse(clinic)
	resp.DefaultLocation = dto.ToLocationResponse(pool)
	return resp, nil
}

// GetByID obtiene la clínica.
func (uc *ClinicUseCase) GetByID(ctx context.Context, id string) (*dto.ClinicResponse, error) {
	clinic, err := uc.clinics.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToClinicResponse(clinic), nil
}

// ApplySubscriptionUpdate procesa la notificación del colaborador de facturación.
func (uc *ClinicUseCase) ApplySubscriptionUpdate(ctx context.Context, in dto.SubscriptionWebhookRequest) error {
	if in.ClinicID == "" {
		return domain.ErrInvalidInput
	}
	clinic, err := uc.clinics.GetByID(ctx, in.ClinicID)
	if err != nil {
		return err
	}
	if clinic == nil {
		return domain.ErrNotFound
	}
	if err := uc.clinics.SetSubscription(ctx, in.ClinicID, in.Active, in.Until); err != nil {
		return err
	}
	uc.log.Info().Str("clinic_id", in.ClinicID).Bool("active", in.Active).
		Msg("suscripción actualizada por webhook de facturación")
	return nil
}

// HasActiveSubscription informa si la clínica puede operar. Lo consulta el
// middleware de suscripción en cada request.
func (uc *ClinicUseCase) HasActiveSubscription(ctx context.Context, clinicID string) (bool, error) {
	return uc.clinics.HasActiveSubscription(ctx, clinicID)
}
