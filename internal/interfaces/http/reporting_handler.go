package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dentalia/insumos-api/internal/application/dto"
	"github.com/dentalia/insumos-api/internal/application/reporting"
	"github.com/dentalia/insumos-api/pkg/logger"
)

// ReportingHandler maneja las consultas de solo lectura sobre el ledger (protegido).
type ReportingHandler struct {
	uc  *reporting.QueryUseCase
	log *logger.Logger
}

// NewReportingHandler construye el handler.
func NewReportingHandler(uc *reporting.QueryUseCase, log *logger.Logger) *ReportingHandler {
	return &ReportingHandler{uc: uc, log: log.Component("http_reporting")}
}

// BelowThreshold godoc
// @Summary      Existencias en o bajo su umbral
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación. Vacío = todas."
// @Success      200  {array}   dto.LowStockRowDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportingHandler) BelowThreshold(c *fiber.Ctx) error {
	rows, err := h.uc.BelowThreshold(c.Context(), GetClinicID(c), c.Query("location_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := dto.ToLowStockRows(rows)
	return c.JSON(fiber.Map{"total": len(out), "rows": out})
}

// ItemTotals godoc
// @Summary      Total de un insumo con desglose por ubicación
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del insumo"
// @Success      200  {object}  dto.ItemTotalsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/items/{id}/totals [get]
func (h *ReportingHandler) ItemTotals(c *fiber.Ctx) error {
	itemID := c.Params("id")
	total, locations, err := h.uc.ItemTotals(c.Context(), GetClinicID(c), itemID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ItemTotalsResponse{
		ItemID:    itemID,
		Total:     total,
		Locations: dto.ToLocationTotals(locations),
	})
}

// History godoc
// @Summary      Historial de movimientos de la clínica
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "RFC 3339; vacío = sin límite inferior"
// @Param        to      query  string  false  "RFC 3339; vacío = sin límite superior"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/history [get]
func (h *ReportingHandler) History(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC 3339"})
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	movements, err := h.uc.History(c.Context(), GetClinicID(c), from, to, limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, *dto.ToMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// CostAggregates godoc
// @Summary      Deltas y costos netos por (insumo, ubicación) para contabilidad
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "RFC 3339"
// @Param        to    query  string  false  "RFC 3339"
// @Success      200  {array}   dto.MovementAggregateDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/aggregates [get]
func (h *ReportingHandler) CostAggregates(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC 3339"})
	}
	aggs, err := h.uc.CostAggregates(c.Context(), GetClinicID(c), from, to)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ToMovementAggregates(aggs))
}

// LowStockPDF godoc
// @Summary      Reporte de stock bajo en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    byte
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/low-stock/pdf [get]
func (h *ReportingHandler) LowStockPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.LowStockPDF(c.Context(), GetClinicID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="stock-bajo.pdf"`)
	return c.Send(pdfBytes)
}

// parseDateRange lee from/to opcionales en RFC 3339.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
