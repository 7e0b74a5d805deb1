package entity

import "time"

// Stock representa la existencia actual de un insumo en una ubicación.
// Es la unidad atómica del ledger: única por (ItemID, LocationID) y con
// Quantity >= 0 garantizado transaccionalmente. Una fila que llega a 0 se
// conserva (el umbral sigue atado al par y los reportes la siguen viendo).
type Stock struct {
	ItemID     string
	LocationID string
	Quantity   int64
	Threshold  *int64 // nil = sin umbral de stock bajo; si no, >= 0
	UpdatedAt  time.Time
}

// BelowThreshold informa si la fila está en o por debajo de su umbral.
func (s *Stock) BelowThreshold() bool {
	return s.Threshold != nil && s.Quantity <= *s.Threshold
}
