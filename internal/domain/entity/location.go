package entity

import "time"

// DefaultLocationName nombre de la ubicación por defecto que se crea al registrar
// la clínica. Actúa como pool de insumos sin asignar y no puede eliminarse.
const DefaultLocationName = "Área común"

// Location representa una sede, consultorio u operatorio donde se almacenan insumos.
type Location struct {
	ID        string
	ClinicID  string
	Name      string
	IsDefault bool // la ubicación protegida creada al registrar la clínica
	CreatedAt time.Time
	UpdatedAt time.Time
}
