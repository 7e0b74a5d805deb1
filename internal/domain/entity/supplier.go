package entity

import "time"

// Supplier representa un proveedor de insumos.
type Supplier struct {
	ID        string
	ClinicID  string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
