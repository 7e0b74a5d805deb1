package reporting

import (
	"context"
	"time"

	"github.com/dentalia/insumos-api/internal/domain"
	"github.com/dentalia/insumos-api/internal/domain/entity"
	"github.com/dentalia/insumos-api/internal/domain/repository"
	"github.com/dentalia/insumos-api/pkg/logger"
)

// QueryUseCase capa de consulta de solo lectura sobre el ledger: umbrales,
// totales por insumo, historial y agregados de costo. Lee únicamente estado
// confirmado (los commits del motor son atómicos), así que no necesita locks.
type QueryUseCase struct {
	stockQueries repository.StockQueryRepository
	movements    repository.StockMovementRepository
	clinics      repository.ClinicRepository
	notifier     Notifier // puede ser nil: notificaciones deshabilitadas
	pdf          ReportPDFGenerator
	log          *logger.Logger
}

// NewQueryUseCase construye la capa de consulta.
func NewQueryUseCase(
	stockQueries repository.StockQueryRepository,
	movements repository.StockMovementRepository,
	clinics repository.ClinicRepository,
	notifier Notifier,
	pdf ReportPDFGenerator,
	log *logger.Logger,
) *QueryUseCase {
	return &QueryUseCase{
		stockQueries: stockQueries,
		movements:    movements,
		clinics:      clinics,
		notifier:     notifier,
		pdf:          pdf,
		log:          log.Component("reporting"),
	}
}

// BelowThreshold responde "qué está en o bajo su umbral" para la clínica,
// opcionalmente filtrado por ubicación. Una fila consumida hasta 0 sigue
// apareciendo (0 <= umbral): las filas en cero se retienen, no se borran.
func (uc *QueryUseCase) BelowThreshold(ctx context.Context, clinicID, locationID string) ([]repository.LowStockRow, error) {
	return uc.stockQueries.BelowThreshold(ctx, clinicID, locationID)
}

// ItemTotals responde "cuánto hay del insumo X" con el desglose por ubicación.
func (uc *QueryUseCase) ItemTotals(ctx context.Context, clinicID, itemID string) (int64, []repository.ItemLocationTotal, error) {
	if itemID == "" {
		return 0, nil, domain.ErrInvalidInput
	}
	totals, err := uc.stockQueries.TotalsByItem(ctx, clinicID, itemID)
	if err != nil {
		return 0, nil, err
	}
	var sum int64
	for _, t := range totals {
		sum += t.Quantity
	}
	return sum, totals, nil
}

// History lista el log de auditoría de la clínica, más reciente primero.
func (uc *QueryUseCase) History(ctx context.Context, clinicID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movements.ListByClinic(ctx, clinicID, from, to, limit, offset)
}

// CostAggregates agrega deltas y costos por (insumo, ubicación) para contabilidad.
func (uc *QueryUseCase) CostAggregates(ctx context.Context, clinicID string, from, to *time.Time) ([]repository.MovementAggregate, error) {
	return uc.movements.AggregateByItemLocation(ctx, clinicID, from, to)
}

// LowStockPDF genera el reporte de stock bajo en PDF.
func (uc *QueryUseCase) LowStockPDF(ctx context.Context, clinicID string) ([]byte, error) {
	clinic, err := uc.clinics.GetByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, domain.ErrNotFound
	}
	rows, err := uc.stockQueries.BelowThreshold(ctx, clinicID, "")
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateLowStockPDF(ctx, clinic.Name, rows)
}

// RunLowStockSweep consulta los umbrales de la clínica y dispara la notificación
// externa. Los fallos del colaborador se registran y se descartan: una alerta
// perdida nunca debe afectar al ledger ni al caller.
func (uc *QueryUseCase) RunLowStockSweep(ctx context.Context, clinicID string) error {
	rows, err := uc.stockQueries.BelowThreshold(ctx, clinicID, "")
	if err != nil {
		return err
	}
	if len(rows) == 0 || uc.notifier == nil {
		return nil
	}
	if err := uc.notifier.NotifyLowStock(ctx, clinicID, rows); err != nil {
		uc.log.Warn().Err(err).Str("clinic_id", clinicID).Int("rows", len(rows)).
			Msg("notificación de stock bajo falló (se descarta)")
	}
	return nil
}

// RunLowStockSweepAll recorre las clínicas activas y ejecuta el barrido en cada
// una. Lo invoca el job programado; un fallo en una clínica no detiene el resto.
func (uc *QueryUseCase) RunLowStockSweepAll(ctx context.Context) {
	clinics, err := uc.clinics.ListActive(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("barrido de umbrales: no se pudieron listar clínicas")
		return
	}
	for _, clinic := range clinics {
		if err := uc.RunLowStockSweep(ctx, clinic.ID); err != nil {
			uc.log.Error().Err(err).Str("clinic_id", clinic.ID).Msg("barrido de umbrales falló")
		}
	}
}
