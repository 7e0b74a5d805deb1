package entity

import "time"

// Clinic representa una clínica odontológica (tenant del sistema).
// SubscriptionActive lo administra el colaborador de facturación vía webhook;
// aquí solo se lee para decidir si la clínica puede operar.
type Clinic struct {
	ID                 string
	Name               string
	Email              string
	Phone              string
	SubscriptionActive bool
	SubscriptionUntil  *time.Time // nil = sin vencimiento
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
