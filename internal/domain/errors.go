package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicateIdentifier = errors.New("identificador duplicado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrCrossAccount        = errors.New("el recurso pertenece a otra clínica")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrUnavailable         = errors.New("almacenamiento no disponible")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
)

// InsufficientStockError lleva el detalle de un rechazo por stock insuficiente:
// cuánto hay y cuánto se pidió. errors.Is(err, ErrInsufficientStock) sigue funcionando.
type InsufficientStockError struct {
	ItemID     string
	LocationID string
	Current    int64
	Requested  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el insumo %s en %s: hay %d, se pidieron %d",
		e.ItemID, e.LocationID, e.Current, e.Requested)
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// BatchLineError identifica qué línea de un lote provocó el rollback completo.
type BatchLineError struct {
	Line     int    // índice de la línea dentro del lote (base 0)
	ItemName string // nombre o ID del insumo de la línea
	Err      error
}

func (e *BatchLineError) Error() string {
	return fmt.Sprintf("línea %d (%s): %v", e.Line, e.ItemName, e.Err)
}

func (e *BatchLineError) Unwrap() error { return e.Err }
