package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un insumo del catálogo (gasas, anestesia, guantes...).
// El ledger lo trata como referencia de solo lectura: el costo por unidad es un
// atributo de catálogo mutable, y el costo de cada movimiento se lee al momento
// del movimiento, no al de la recepción.
type Item struct {
	ID          string
	ClinicID    string
	Name        string
	Unit        string          // unidad de medida: caja, unidad, ml...
	CostPerUnit decimal.Decimal // >= 0
	Barcode     string          // código de escaneo, único por clínica; vacío = sin código
	CategoryID  string          // vacío = sin categoría
	SupplierID  string          // vacío = sin proveedor
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
