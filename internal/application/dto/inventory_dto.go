package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dentalia/insumos-api/internal/domain/entity"
)

// ── Movimientos ───────────────────────────────────────────────────────────────

// ReceiveRequest body para POST /api/inventory/receive.
type ReceiveRequest struct {
	ItemID     string           `json:"item_id"`
	LocationID string           `json:"location_id"`
	Quantity   int64            `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"` // opcional: precio de compra puntual
	Reference  string           `json:"reference,omitempty"`
}

// ConsumeRequest body para POST /api/inventory/consume.
type ConsumeRequest struct {
	ItemID     string `json:"item_id"`
	LocationID string `json:"location_id"`
	Quantity   int64  `json:"quantity"`
	Reference  string `json:"reference,omitempty"` // procedimiento, orden...
}

// TransferRequest body para POST /api/inventory/transfer.
type TransferRequest struct {
	ItemID         string `json:"item_id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Quantity       int64  `json:"quantity"`
	Reference      string `json:"reference,omitempty"`
}

// AssignRequest body para POST /api/inventory/assign.
// El origen es siempre la ubicación por defecto de la clínica (pool común).
type AssignRequest struct {
	ItemID     string `json:"item_id"`
	LocationID string `json:"location_id"` // operatorio destino
	Quantity   int64  `json:"quantity"`
	Reference  string `json:"reference,omitempty"`
}

// AdjustRequest body para POST /api/inventory/adjust.
type AdjustRequest struct {
	ItemID     string `json:"item_id"`
	LocationID string `json:"location_id"`
	Delta      int64  `json:"delta"` // positivo suma, negativo resta
	Reference  string `json:"reference,omitempty"` // conteo físico, merma, rotura...
}

// ── Lotes ─────────────────────────────────────────────────────────────────────

// BatchLineRequest línea de un lote. Con item_id vacío, el insumo se resuelve
// por código de escaneo o por nombre y se crea si no existe.
type BatchLineRequest struct {
	ItemID     string           `json:"item_id,omitempty"`
	Name       string           `json:"name,omitempty"`
	Barcode    string           `json:"barcode,omitempty"`
	Unit       string           `json:"unit,omitempty"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	Quantity   int64            `json:"quantity"`
	LocationID string           `json:"location_id,omitempty"` // vacío = la del lote
}

// BatchRequest body para POST /api/inventory/batch. Todo-o-nada.
type BatchRequest struct {
	Kind       string             `json:"kind"` // RECEIVE | CONSUME
	LocationID string             `json:"location_id"`
	Reference  string             `json:"reference,omitempty"`
	Lines      []BatchLineRequest `json:"lines"`
}

// ── Umbrales ──────────────────────────────────────────────────────────────────

// ThresholdRequest body para PUT /api/inventory/threshold.
type ThresholdRequest struct {
	ItemID     string `json:"item_id"`
	LocationID string `json:"location_id"`
	Threshold  *int64 `json:"threshold"` // null = quitar umbral
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// MovementResponse una fila del log de auditoría.
type MovementResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	LocationID     string          `json:"location_id"`
	Kind           string          `json:"kind"`
	Quantity       int64           `json:"quantity"`
	Direction      string          `json:"direction"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Reference      string          `json:"reference,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// ToMovementResponse mapea la entidad de auditoría a su DTO.
func ToMovementResponse(m *entity.StockMovement) *MovementResponse {
	resp := &MovementResponse{
		ID:         m.ID,
		ItemID:     m.ItemID,
		LocationID: m.LocationID,
		Kind:       m.Kind,
		Quantity:   m.Quantity,
		Direction:  m.Direction,
		UnitCost:   m.UnitCost,
		TotalCost:  m.TotalCost,
		Reference:  m.Reference,
		CreatedAt:  m.CreatedAt,
		CreatedBy:  m.CreatedBy,
	}
	if m.FromLocationID != nil {
		resp.FromLocationID = *m.FromLocationID
	}
	return resp
}
