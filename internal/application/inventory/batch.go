package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dentalia/insumos-api/internal/domain"
	"github.com/dentalia/insumos-api/internal/domain/entity"
	domaininv "github.com/dentalia/insumos-api/internal/domain/inventory"
)

// BatchLine una línea de un lote de recepción o consumo.
// Si ItemID viene vacío la línea es "nueva": el insumo se resuelve por código de
// escaneo o por nombre (match idempotente, insensible a mayúsculas y tildes) y
// se crea si no existe.
type BatchLine struct {
	ItemID     string
	Name       string
	Barcode    string
	Unit       string
	UnitCost   *decimal.Decimal
	Quantity   int64
	LocationID string // vacío = usar la ubicación del lote
}

// BatchInput lote de movimientos en una sola acción de usuario (check-in de
// compra o descargue de un procedimiento).
type BatchInput struct {
	ClinicID   string
	UserID     string
	Kind       string // RECEIVE o CONSUME
	LocationID string // destino por defecto de las líneas
	Reference  string
	Lines      []BatchLine
}

// BatchApply aplica todas las líneas dentro de UNA transacción: si cualquier
// línea falla la validación, el lote completo hace rollback (sin aplicación
// parcial) y el error identifica la línea culpable. La creación de insumos
// nuevos es idempotente por nombre; una colisión de código de escaneo contra un
// insumo distinto invalida el lote entero.
func (e *MovementEngine) BatchApply(ctx context.Context, in BatchInput) error {
	if len(in.Lines) == 0 || in.ClinicID == "" {
		return domain.ErrInvalidInput
	}
	if in.Kind != entity.MovementKindRECEIVE && in.Kind != entity.MovementKindCONSUME {
		return domain.ErrInvalidInput
	}
	return e.txRunner.Run(ctx, func(repos TxRepos) error {
		for i, line := range in.Lines {
			if err := e.applyLine(ctx, repos, in, line); err != nil {
				name := line.Name
				if name == "" {
					name = line.ItemID
				}
				return &domain.BatchLineError{Line: i, ItemName: name, Err: err}
			}
		}
		return nil
	})
}

func (e *MovementEngine) applyLine(ctx context.Context, repos TxRepos, in BatchInput, line BatchLine) error {
	if line.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	locationID := line.LocationID
	if locationID == "" {
		locationID = in.LocationID
	}
	if _, err := e.requireLocation(ctx, repos, in.ClinicID, locationID); err != nil {
		return err
	}

	item, err := e.resolveLineItem(ctx, repos, in.ClinicID, line)
	if err != nil {
		return err
	}

	switch in.Kind {
	case entity.MovementKindRECEIVE:
		unitCost := item.CostPerUnit
		if line.UnitCost != nil {
			if line.UnitCost.IsNegative() {
				return domain.ErrInvalidInput
			}
			unitCost = *line.UnitCost
		}
		if err := repos.Stock.AddQuantity(ctx, item.ID, locationID, line.Quantity); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, newMovement(in.ClinicID, in.UserID, item.ID,
			nil, locationID, entity.MovementKindRECEIVE, entity.DirectionIncrease,
			line.Quantity, unitCost, in.Reference))
	case entity.MovementKindCONSUME:
		return e.consumeLocked(ctx, repos, item, in.UserID, locationID, line.Quantity, in.Reference)
	}
	return domain.ErrInvalidInput
}

// resolveLineItem resuelve el insumo de la línea: por ID, por código de escaneo
// o por nombre normalizado; si no existe lo crea dentro de la misma transacción.
func (e *MovementEngine) resolveLineItem(ctx context.Context, repos TxRepos, clinicID string, line BatchLine) (*entity.Item, error) {
	if line.ItemID != "" {
		return e.requireItem(ctx, repos, clinicID, line.ItemID)
	}
	if line.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	nameKey := domaininv.NameKey(line.Name)

	if line.Barcode != "" {
		byCode, err := repos.Items.GetByBarcode(ctx, clinicID, line.Barcode)
		if err != nil {
			return nil, err
		}
		if byCode != nil {
			// El código ya existe: solo es válido si apunta al mismo insumo.
			if domaininv.NameKey(byCode.Name) != nameKey {
				return nil, domain.ErrDuplicateIdentifier
			}
			return byCode, nil
		}
	}

	existing, err := repos.Items.GetByNameKey(ctx, clinicID, nameKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	cost := decimal.Zero
	if line.UnitCost != nil && !line.UnitCost.IsNegative() {
		cost = *line.UnitCost
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		ClinicID:    clinicID,
		Name:        line.Name,
		Unit:        line.Unit,
		CostPerUnit: cost,
		Barcode:     line.Barcode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repos.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
