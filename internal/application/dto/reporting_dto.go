package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dentalia/insumos-api/internal/domain/repository"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// HistoryRequest parámetros para GET /api/reports/history.
type HistoryRequest struct {
	From   string `query:"from"` // RFC 3339; vacío = sin límite inferior
	To     string `query:"to"`   // RFC 3339; vacío = sin límite superior
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ── Umbrales ──────────────────────────────────────────────────────────────────

// LowStockRowDTO una existencia en o bajo su umbral.
type LowStockRowDTO struct {
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	Unit         string `json:"unit,omitempty"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	Quantity     int64  `json:"quantity"`
	Threshold    int64  `json:"threshold"`
	Deficit      int64  `json:"deficit"` // Threshold - Quantity
}

// ToLowStockRows mapea las filas del reporte de umbrales.
func ToLowStockRows(rows []repository.LowStockRow) []LowStockRowDTO {
	out := make([]LowStockRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, LowStockRowDTO{
			ItemID:       r.ItemID,
			ItemName:     r.ItemName,
			Unit:         r.Unit,
			LocationID:   r.LocationID,
			LocationName: r.LocationName,
			Quantity:     r.Quantity,
			Threshold:    r.Threshold,
			Deficit:      r.Threshold - r.Quantity,
		})
	}
	return out
}

// ── Totales por insumo ────────────────────────────────────────────────────────

// LocationTotalDTO cantidad de un insumo en una ubicación.
type LocationTotalDTO struct {
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	Quantity     int64  `json:"quantity"`
}

// ItemTotalsResponse respuesta de GET /api/reports/items/:id/totals:
// total de la clínica más el desglose por ubicación.
type ItemTotalsResponse struct {
	ItemID    string             `json:"item_id"`
	Total     int64              `json:"total"`
	Locations []LocationTotalDTO `json:"locations"`
}

// ToLocationTotals mapea el desglose por ubicación.
func ToLocationTotals(totals []repository.ItemLocationTotal) []LocationTotalDTO {
	out := make([]LocationTotalDTO, 0, len(totals))
	for _, t := range totals {
		out = append(out, LocationTotalDTO{
			LocationID:   t.LocationID,
			LocationName: t.LocationName,
			Quantity:     t.Quantity,
		})
	}
	return out
}

// ── Agregados de costo ────────────────────────────────────────────────────────

// MovementAggregateDTO deltas y costos netos por (insumo, ubicación).
type MovementAggregateDTO struct {
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	LocationID string          `json:"location_id"`
	Quantity   int64           `json:"quantity"`   // suma con signo de los deltas
	TotalCost  decimal.Decimal `json:"total_cost"` // suma con signo de los costos
}

// ToMovementAggregates mapea los agregados de contabilidad.
func ToMovementAggregates(aggs []repository.MovementAggregate) []MovementAggregateDTO {
	out := make([]MovementAggregateDTO, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, MovementAggregateDTO{
			ItemID:     a.ItemID,
			ItemName:   a.ItemName,
			LocationID: a.LocationID,
			Quantity:   a.Quantity,
			TotalCost:  a.TotalCost,
		})
	}
	return out
}
