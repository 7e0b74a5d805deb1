package reporting

import (
	"context"

	"github.com/dentalia/insumos-api/internal/domain/repository"
)

// Notifier es el colaborador externo de notificaciones de stock bajo.
// Fire-and-forget: un fallo aquí jamás revierte un movimiento ni un reporte.
type Notifier interface {
	NotifyLowStock(ctx context.Context, clinicID string, rows []repository.LowStockRow) error
}

// ReportPDFGenerator genera la representación en PDF del reporte de stock bajo.
type ReportPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, clinicName string, rows []repository.LowStockRow) ([]byte, error)
}
