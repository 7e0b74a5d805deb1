package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dentalia/insumos-api/internal/application/dto"
)

// subscriptionChecker es el contrato mínimo que necesita el middleware.
// Lo implementa *usecase.ClinicUseCase; el uso de interfaz evita el import circular.
type subscriptionChecker interface {
	HasActiveSubscription(ctx context.Context, clinicID string) (bool, error)
}

// RequireSubscription devuelve un middleware Fiber que verifica si la clínica del
// token JWT tiene la suscripción vigente. Debe usarse DESPUÉS de AuthMiddleware
// (necesita LocalClinicID).
//
// Comportamiento:
//   - 403 Forbidden → suscripción inactiva o vencida.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
//   - Si no hay clinic_id en el contexto, responde 401 (el AuthMiddleware debería haberlo puesto).
func RequireSubscription(checker subscriptionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clinicID := GetClinicID(c)
		if clinicID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "clinic_id no encontrado en el token",
			})
		}

		active, err := checker.HasActiveSubscription(c.Context(), clinicID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SUBSCRIPTION_CHECK_FAILED",
				Message: "no se pudo verificar la suscripción, intente más tarde",
			})
		}

		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "SUBSCRIPTION_INACTIVE",
				Message: "la suscripción de la clínica no está activa",
			})
		}

		return c.Next()
	}
}
