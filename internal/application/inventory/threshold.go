package inventory

import (
	"context"

	"github.com/dentalia/insumos-api/internal/domain"
)

// ThresholdInput fija o limpia el umbral de stock bajo de un par (insumo, ubicación).
type ThresholdInput struct {
	ClinicID   string
	ItemID     string
	LocationID string
	Threshold  *int64 // nil = quitar umbral
}

// SetThreshold actualiza el umbral del par con las mismas validaciones de
// pertenencia que los movimientos. No escribe en el log: el umbral es
// configuración de alerta, no un cambio de cantidad.
func (e *MovementEngine) SetThreshold(ctx context.Context, in ThresholdInput) error {
	if in.ItemID == "" || in.LocationID == "" {
		return domain.ErrInvalidInput
	}
	if in.Threshold != nil && *in.Threshold < 0 {
		return domain.ErrInvalidInput
	}
	return e.txRunner.Run(ctx, func(repos TxRepos) error {
		if _, err := e.requireItem(ctx, repos, in.ClinicID, in.ItemID); err != nil {
			return err
		}
		if _, err := e.requireLocation(ctx, repos, in.ClinicID, in.LocationID); err != nil {
			return err
		}
		return repos.Stock.SetThreshold(ctx, in.ItemID, in.LocationID, in.Threshold)
	})
}
