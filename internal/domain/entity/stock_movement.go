package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementKindRECEIVE  = "RECEIVE"  // recepción de insumos
	MovementKindCONSUME  = "CONSUME"  // consumo en un procedimiento
	MovementKindTRANSFER = "TRANSFER" // traslado entre ubicaciones
	MovementKindASSIGN   = "ASSIGN"   // asignación desde el pool común a un operatorio
	MovementKindADJUST   = "ADJUST"   // corrección manual
)

// Dirección del delta sobre la ubicación de efecto.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

// StockMovement es el registro de auditoría de un movimiento confirmado.
// Append-only: nunca se actualiza ni se elimina; es la única fuente de verdad
// histórica (Stock solo guarda el estado actual). Un traslado produce UNA sola
// fila que referencia ambos extremos, no dos.
type StockMovement struct {
	ID             string
	ClinicID       string
	ItemID         string
	FromLocationID *string // nil en recepciones puras
	LocationID     string  // ubicación de efecto (destino en traslados)
	Kind           string
	Quantity       int64           // magnitud, siempre > 0
	Direction      string          // increase | decrease sobre LocationID
	UnitCost       decimal.Decimal // costo unitario al momento del movimiento
	TotalCost      decimal.Decimal // Quantity x UnitCost
	Reference      string          // causa de alto nivel: procedimiento, orden, etc.
	CreatedAt      time.Time
	CreatedBy      string // UserID del actor
}
