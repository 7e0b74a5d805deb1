package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dentalia/insumos-api/internal/application/dto"
	"github.com/dentalia/insumos-api/internal/domain"
	"github.com/dentalia/insumos-api/pkg/logger"
)

// respondError mapea errores de dominio a HTTP de forma centralizada.
// Los errores no clasificados se responden como 500 con un correlation id y SIN
// el detalle interno; el detalle completo queda solo en el log.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrCrossAccount):
		// Un recurso de otra clínica se responde como inexistente: no filtramos
		// qué IDs existen en otras cuentas.
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		var insufficient *domain.InsufficientStockError
		msg := "stock insuficiente"
		if errors.As(err, &insufficient) {
			msg = insufficient.Error()
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: msg})
	case errors.Is(err, domain.ErrDuplicateIdentifier):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "DUPLICATE", Message: "identificador duplicado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "CONFLICT", Message: "la operación entra en conflicto con el estado actual"})
	case errors.Is(err, domain.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "UNAVAILABLE", Message: "almacenamiento no disponible, intente más tarde"})
	}

	correlationID := uuid.New().String()
	log.Error().Err(err).
		Str("correlation_id", correlationID).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno no clasificado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: "error interno (ref: " + correlationID + ")"})
}

// respondBatchError antepone la línea culpable cuando el error viene de un lote.
func respondBatchError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var lineErr *domain.BatchLineError
	if errors.As(err, &lineErr) {
		status := fiber.StatusBadRequest
		code := "BATCH_LINE"
		switch {
		case errors.Is(lineErr.Err, domain.ErrInsufficientStock):
			status = fiber.StatusConflict
			code = "INSUFFICIENT_STOCK"
		case errors.Is(lineErr.Err, domain.ErrDuplicateIdentifier):
			status = fiber.StatusConflict
			code = "DUPLICATE"
		case errors.Is(lineErr.Err, domain.ErrNotFound), errors.Is(lineErr.Err, domain.ErrCrossAccount):
			status = fiber.StatusNotFound
			code = "NOT_FOUND"
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: lineErr.Error()})
	}
	return respondError(c, log, err)
}
