package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/dentalia/insumos-api/internal/application/dto"
	"github.com/dentalia/insumos-api/internal/application/usecase"
	"github.com/dentalia/insumos-api/pkg/logger"
)

// ClinicHandler maneja el registro de clínicas y el webhook de facturación.
type ClinicHandler struct {
	uc            *usecase.ClinicUseCase
	webhookSecret string
	log           *logger.Logger
}

// NewClinicHandler construye el handler.
func NewClinicHandler(uc *usecase.ClinicUseCase, webhookSecret string, log *logger.Logger) *ClinicHandler {
	return &ClinicHandler{uc: uc, webhookSecret: webhookSecret, log: log.Component("http_clinics")}
}

// Register godoc
// @Summary      Registrar clínica
// @Description  Crea la clínica junto con su ubicación por defecto ("Área común"),
//	el pool de insumos sin asignar.
// @Tags         clinics
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterClinicRequest  true  "Datos de la clínica"
// @Success      201   {object}  dto.ClinicResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/clinics [post]
func (h *ClinicHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterClinicRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Register(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener clínica por ID
// @Tags         clinics
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la clínica"
// @Success      200  {object}  dto.ClinicResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clinics/{id} [get]
func (h *ClinicHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	// Solo la propia clínica puede consultarse.
	if id != GetClinicID(c) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// SubscriptionWebhook godoc
// @Summary      Webhook del colaborador de facturación
// @Description  Actualiza el estado de suscripción de una clínica. Autenticado
//	con un secreto compartido en el header X-Webhook-Secret.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubscriptionWebhookRequest  true  "clinic_id, active, until"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/webhooks/subscription [post]
func (h *ClinicHandler) SubscriptionWebhook(c *fiber.Ctx) error {
	secret := c.Get("X-Webhook-Secret")
	if h.webhookSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(h.webhookSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "secreto de webhook inválido"})
	}
	var in dto.SubscriptionWebhookRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ApplySubscriptionUpdate(c.Context(), in); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "suscripción actualizada"})
}
