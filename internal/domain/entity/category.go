package entity

import "time"

// Category representa una categoría de insumos (descartables, anestésicos, etc.).
type Category struct {
	ID        string
	ClinicID  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
