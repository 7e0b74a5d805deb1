package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dentalia/insumos-api/internal/application/dto"
	"github.com/dentalia/insumos-api/internal/application/inventory"
	"github.com/dentalia/insumos-api/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP del motor de movimientos (protegido).
type InventoryHandler struct {
	engine *inventory.MovementEngine
	log    *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.MovementEngine, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{engine: engine, log: log.Component("http_inventory")}
}

// Receive godoc
// @Summary      Recibir insumos en una ubicación
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "item_id, location_id, quantity, unit_cost (opcional)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.Receive(c.Context(), inventory.ReceiveInput{
		ClinicID:   GetClinicID(c),
		UserID:     GetUserID(c),
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Reference:  in.Reference,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "recepción registrada"})
}

// Consume godoc
// @Summary      Consumir insumos de una ubicación
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "item_id, location_id, quantity, reference (procedimiento)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/consume [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.Consume(c.Context(), inventory.ConsumeInput{
		ClinicID:   GetClinicID(c),
		UserID:     GetUserID(c),
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Reference:  in.Reference,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "consumo registrado"})
}

// Transfer godoc
// @Summary      Trasladar insumos entre ubicaciones
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "item_id, from_location_id, to_location_id, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.Transfer(c.Context(), inventory.TransferInput{
		ClinicID:       GetClinicID(c),
		UserID:         GetUserID(c),
		ItemID:         in.ItemID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Reference:      in.Reference,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "traslado registrado"})
}

// Assign godoc
// @Summary      Asignar insumos del pool común a un operatorio
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignRequest  true  "item_id, location_id (destino), quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/assign [post]
func (h *InventoryHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.AssignToLocation(c.Context(), inventory.AssignInput{
		ClinicID:   GetClinicID(c),
		UserID:     GetUserID(c),
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Reference:  in.Reference,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "asignación registrada"})
}

// Adjust godoc
// @Summary      Corregir una existencia (conteo físico, merma, rotura)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustRequest  true  "item_id, location_id, delta con signo"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.Adjust(c.Context(), inventory.AdjustInput{
		ClinicID:   GetClinicID(c),
		UserID:     GetUserID(c),
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		Delta:      in.Delta,
		Reference:  in.Reference,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "corrección registrada"})
}

// Batch godoc
// @Summary      Aplicar un lote de recepciones o consumos (todo o nada)
// @Description  Todas las líneas se aplican en una sola transacción. Si una línea
//	falla, el lote completo se revierte y el error identifica la línea.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchRequest  true  "kind (RECEIVE|CONSUME), location_id, lines"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/batch [post]
func (h *InventoryHandler) Batch(c *fiber.Ctx) error {
	var in dto.BatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]inventory.BatchLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.BatchLine{
			ItemID:     l.ItemID,
			Name:       l.Name,
			Barcode:    l.Barcode,
			Unit:       l.Unit,
			UnitCost:   l.UnitCost,
			Quantity:   l.Quantity,
			LocationID: l.LocationID,
		})
	}
	err := h.engine.BatchApply(c.Context(), inventory.BatchInput{
		ClinicID:   GetClinicID(c),
		UserID:     GetUserID(c),
		Kind:       in.Kind,
		LocationID: in.LocationID,
		Reference:  in.Reference,
		Lines:      lines,
	})
	if err != nil {
		return respondBatchError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "lote aplicado",
		"lines":   len(lines),
	})
}

// SetThreshold godoc
// @Summary      Fijar o quitar el umbral de stock bajo de un par (insumo, ubicación)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ThresholdRequest  true  "item_id, location_id, threshold (null = quitar)"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/threshold [put]
func (h *InventoryHandler) SetThreshold(c *fiber.Ctx) error {
	var in dto.ThresholdRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.engine.SetThreshold(c.Context(), inventory.ThresholdInput{
		ClinicID:   GetClinicID(c),
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		Threshold:  in.Threshold,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "umbral actualizado"})
}
