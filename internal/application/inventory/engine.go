package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dentalia/insumos-api/internal/domain"
	"github.com/dentalia/insumos-api/internal/domain/entity"
)

// MovementEngine registra movimientos de inventario de forma transaccional.
// Todas las operaciones siguen el mismo esqueleto: abrir transacción → bloquear
// la(s) fila(s) de stock (SELECT FOR UPDATE, en orden de clave compuesta cuando
// son dos) → validar → mutar → registrar UNA fila de auditoría → commit.
// Cualquier fallo de validación hace rollback y no deja rastro en el log.
type MovementEngine struct {
	txRunner TxRunner
}

// NewMovementEngine construye el motor.
func NewMovementEngine(txRunner TxRunner) *MovementEngine {
	return &MovementEngine{txRunner: txRunner}
}

// ReceiveInput entrada para una recepción de insumos.
// UnitCost opcional: si viene, se usa para el costo del movimiento en lugar del
// costo de catálogo (p. ej. un precio de compra puntual).
type ReceiveInput struct {
	ClinicID   string
	UserID     string
	ItemID     string
	LocationID string
	Quantity   int64
	UnitCost   *decimal.Decimal
	Reference  string
}

// Receive suma cantidad en (insumo, ubicación), creando la fila si no existe.
// El upsert es atómico: dos recepciones concurrentes sobre un par nuevo terminan
// en una sola fila con la suma de ambas.
func (e *MovementEngine) Receive(ctx context.Context, in ReceiveInput) error {
	if in.Quantity <= 0 || in.ItemID == "" || in.LocationID == "" {
		return domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	return e.txRunner.Run(ctx, func(repos TxRepos) error {
		item, err := e.requireItem(ctx, repos, in.ClinicID, in.ItemID)
		if err != nil {
			return err
		}
		if _, err := e.requireLocation(ctx, repos, in.ClinicID, in.LocationID); err != nil {
			return err
		}
		unitCost := item.CostPerUnit
		if in.UnitCost != nil {
			unitCost = *in.UnitCost
		}
		if err := repos.Stock.AddQuantity(ctx, in.ItemID, in.LocationID, in.Quantity); err != nil {
			return err
		}
		return repos.Movements.Create(ctx, newMovement(in.ClinicID, in.UserID, in.ItemID,
			nil, in.LocationID, entity.MovementKindRECEIVE, entity.DirectionIncrease,
			in.Quantity, unitCost, in.Reference))
	})
}

// ConsumeInput entrada para un consumo (gasto en un procedimiento).
type ConsumeInput struct {
	ClinicID   string
	UserID     string
	ItemID     string
	LocationID string
	Quantity   int64
	Reference  string // procedimiento, orden u otra causa de alto nivel
}

// Consume descuenta cantidad bajo lock de fila. Si la fila no existe o no
// alcanza, falla con InsufficientStockError (actual vs pedido) y hace rollback.
// El costo del movimiento se lee del catálogo al momento de la llamada, no al
// de la recepción: el costo unitario es un atributo mutable de catálogo.
func (e *MovementEngine) Consume(ctx context.Context, in ConsumeInput) error {
	if in.Quantity <= 0 || in.ItemID == "" || in.LocationID == "" {
		return domain.ErrInvalidInput
	}
	return e.txRunner.Run(ctx, func(repos TxRepos) error {
		item, err := e.requireItem(ctx, repos, in.ClinicID, in.ItemID)
		if err != nil {
			return err
		}
		if _, err := e.requireLocation(ctx, repos, in.ClinicID, in.LocationID); err != nil {
			return err
		}
		return e.consumeLocked(ctx, repos, item, in.UserID, in.LocationID, in.Quantity, in.Reference)
	})
}

// TransferInput entrada para un traslado entre ubicaciones.
type TransferInput struct {
	ClinicID       string
	UserID         string
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Quantity       int64
	Reference      string
}

// Transfer descuenta en el origen y acumula en el destino dentro de la misma
// transacción, y registra UNA fila de auditoría con ambos extremos.
// Los locks se toman en orden ascendente de ubicación para que dos traslados en
// direcciones opuestas no puedan quedar en deadlock.
func (e *MovementEngine) Transfer(ctx context.Context, in TransferInput) error {
	if in.Quantity <= 0 || in.ItemID == "" || in.FromLocationID == "" || in.ToLocationID == "" {
		return domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return domain.ErrInvalidInput
	}
	return e.txRunner.Run(ctx, func(repos TxRepos) error {
		item, err := e.requireItem(ctx, repos, in.ClinicID, in.ItemID)
		if err != nil {
			return err
		}
		if _, err := e.requireLocation(ctx, repos, in.ClinicID, in.FromLocationID); err != nil {
			return err
		}
		if _, err := e.requireLocation(ctx, repos, in.ClinicID, in.ToLocationID); err != nil {
			return err
		}
		return e.transferLocked(ctx, repos, item, in.UserID,
			in.FromLocationID, in.ToLocationID, in.Quantity,
			entity.MovementKindTRANSFER, in.Reference)
	})
}

// AssignInput entrada para asignar insumos del pool común a un operatorio.
type AssignInput struct {
	ClinicID   string
	UserID     string
	ItemID     string
	LocationID string // operatorio destino
	Quantity   int64
	Reference  string
}

// AssignToLocation es un traslado cuyo origen es la ubicación por defecto de la
// clínica (el pool sin asignar). Acumula sobre la fila del destino si ya existe.
func (e *MovementEngine) AssignToLocation(ctx context.Context, in AssignInput) error {
	if in.Quantity <= 0 || in.ItemID == "" || in.LocationID == "" {
		return domain.ErrInvalidInput
	}
	return e.txRunner.Run(ctx, func(repos TxRepos) error {
		item, err := e.requireItem(ctx, repos, in.ClinicID, in.ItemID)
		if err != nil {
			return err
		}
		pool, err := repos.Locations.GetDefault(ctx, in.ClinicID)
		if err != nil {
			return err
		}
		if pool == nil {
			return domain.ErrNotFound
		}
		dest, err := e.requireLocation(ctx, repos, in.ClinicID, in.LocationID)
		if err != nil {
			return err
		}
		if dest.ID == pool.ID {
			return domain.ErrInvalidInput
		}
		return e.transferLocked(ctx, repos, item, in.UserID,
			pool.ID, dest.ID, in.Quantity, entity.MovementKindASSIGN, in.Reference)
	})
}

// AdjustInput entrada para una corrección manual (conteo físico, merma, rotura).
type AdjustInput struct {
	ClinicID   string
	UserID     string
	ItemID     string
	LocationID string
	Delta      int64 // positivo suma, negativo resta (con guarda de suficiencia)
	Reference  string
}

// Adjust aplica una corrección con signo. Un delta negativo está sujeto a la
// misma guarda de no-negatividad que un consumo.
func (e *MovementEngine) Adjust(ctx context.Context, in AdjustInput) error {
	if in.Delta == 0 || in.ItemID == "" || in.LocationID == "" {
		return domain.ErrInvalidInput
	}
	return e.txRunner.Run(ctx, func(repos TxRepos) error {
		item, err := e.requireItem(ctx, repos, in.ClinicID, in.ItemID)
		if err != nil {
			return err
		}
		if _, err := e.requireLocation(ctx, repos, in.ClinicID, in.LocationID); err != nil {
			return err
		}
		if in.Delta > 0 {
			if err := repos.Stock.AddQuantity(ctx, in.ItemID, in.LocationID, in.Delta); err != nil {
				return err
			}
			return repos.Movements.Create(ctx, newMovement(in.ClinicID, in.UserID, in.ItemID,
				nil, in.LocationID, entity.MovementKindADJUST, entity.DirectionIncrease,
				in.Delta, item.CostPerUnit, in.Reference))
		}
		qty := -in.Delta
		stock, err := repos.Stock.GetForUpdate(ctx, in.ItemID, in.LocationID)
		if err != nil {
			return err
		}
		if stock.Quantity < qty {
			return &domain.InsufficientStockError{
				ItemID: in.ItemID, LocationID: in.LocationID,
				Current: stock.Quantity, Requested: qty,
			}
		}
		if ok, err := repos.Stock.Subtract(ctx, in.ItemID, in.LocationID, qty); err != nil {
			return err
		} else if !ok {
			return &domain.InsufficientStockError{
				ItemID: in.ItemID, LocationID: in.LocationID,
				Current: stock.Quantity, Requested: qty,
			}
		}
		return repos.Movements.Create(ctx, newMovement(in.ClinicID, in.UserID, in.ItemID,
			nil, in.LocationID, entity.MovementKindADJUST, entity.DirectionDecrease,
			qty, item.CostPerUnit, in.Reference))
	})
}

// ── Helpers dentro de transacción (compartidos con BatchApply) ────────────────

// consumeLocked descuenta bajo lock y registra el movimiento. Asume item y
// ubicación ya validados dentro de la misma transacción.
func (e *MovementEngine) consumeLocked(ctx context.Context, repos TxRepos, item *entity.Item,
	userID, locationID string, qty int64, reference string) error {

	stock, err := repos.Stock.GetForUpdate(ctx, item.ID, locationID)
	if err != nil {
		return err
	}
	if stock.Quantity < qty {
		return &domain.InsufficientStockError{
			ItemID: item.ID, LocationID: locationID,
			Current: stock.Quantity, Requested: qty,
		}
	}
	if ok, err := repos.Stock.Subtract(ctx, item.ID, locationID, qty); err != nil {
		return err
	} else if !ok {
		// La guarda del UPDATE es la última línea de defensa; bajo lock no debería fallar.
		return &domain.InsufficientStockError{
			ItemID: item.ID, LocationID: locationID,
			Current: stock.Quantity, Requested: qty,
		}
	}
	return repos.Movements.Create(ctx, newMovement(item.ClinicID, userID, item.ID,
		nil, locationID, entity.MovementKindCONSUME, entity.DirectionDecrease,
		qty, item.CostPerUnit, reference))
}

// transferLocked mueve cantidad entre dos ubicaciones ya validadas: bloquea las
// filas en orden fijo, valida suficiencia contra el estado ya bloqueado, resta
// en origen, acumula en destino (upsert atómico) y escribe una sola fila de log.
func (e *MovementEngine) transferLocked(ctx context.Context, repos TxRepos, item *entity.Item,
	userID, fromID, toID string, qty int64, kind, reference string) error {

	if err := repos.Stock.LockPair(ctx, item.ID, fromID, toID); err != nil {
		return err
	}
	source, err := repos.Stock.Get(ctx, item.ID, fromID)
	if err != nil {
		return err
	}
	current := int64(0)
	if source != nil {
		current = source.Quantity
	}
	if current < qty {
		return &domain.InsufficientStockError{
			ItemID: item.ID, LocationID: fromID,
			Current: current, Requested: qty,
		}
	}
	if ok, err := repos.Stock.Subtract(ctx, item.ID, fromID, qty); err != nil {
		return err
	} else if !ok {
		return &domain.InsufficientStockError{
			ItemID: item.ID, LocationID: fromID,
			Current: current, Requested: qty,
		}
	}
	if err := repos.Stock.AddQuantity(ctx, item.ID, toID, qty); err != nil {
		return err
	}
	return repos.Movements.Create(ctx, newMovement(item.ClinicID, userID, item.ID,
		&fromID, toID, kind, entity.DirectionIncrease, qty, item.CostPerUnit, reference))
}

// requireItem valida existencia y pertenencia del insumo dentro de la tx.
func (e *MovementEngine) requireItem(ctx context.Context, repos TxRepos, clinicID, itemID string) (*entity.Item, error) {
	item, err := repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.ClinicID != clinicID {
		return nil, domain.ErrCrossAccount
	}
	return item, nil
}

// requireLocation valida existencia y pertenencia de la ubicación dentro de la tx.
func (e *MovementEngine) requireLocation(ctx context.Context, repos TxRepos, clinicID, locationID string) (*entity.Location, error) {
	location, err := repos.Locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	if location.ClinicID != clinicID {
		return nil, domain.ErrCrossAccount
	}
	return location, nil
}

func newMovement(clinicID, userID, itemID string, fromLocationID *string, locationID,
	kind, direction string, qty int64, unitCost decimal.Decimal, reference string) *entity.StockMovement {

	return &entity.StockMovement{
		ID:             uuid.New().String(),
		ClinicID:       clinicID,
		ItemID:         itemID,
		FromLocationID: fromLocationID,
		LocationID:     locationID,
		Kind:           kind,
		Quantity:       qty,
		Direction:      direction,
		UnitCost:       unitCost,
		TotalCost:      decimal.NewFromInt(qty).Mul(unitCost),
		Reference:      reference,
		CreatedAt:      time.Now(),
		CreatedBy:      userID,
	}
}
