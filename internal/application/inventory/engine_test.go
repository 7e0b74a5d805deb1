package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalia/insumos-api/internal/application/inventory"
	"github.com/dentalia/insumos-api/internal/domain"
	"github.com/dentalia/insumos-api/internal/domain/entity"
)

const (
	clinicA   = "clinic-a"
	clinicB   = "clinic-b"
	userDra   = "user-dra-gomez"
	itemGasas = "item-gasas"
	locPool   = "loc-pool"
	locSalaA  = "loc-sala-a"
	locSalaB  = "loc-sala-b"
)

// seedClinic monta el escenario base: una clínica con pool común, dos salas y
// un insumo (gasas a $500 la unidad).
func seedClinic(store *memStore) {
	store.seedLocation(locPool, clinicA, entity.DefaultLocationName, true)
	store.seedLocation(locSalaA, clinicA, "Sala A", false)
	store.seedLocation(locSalaB, clinicA, "Sala B", false)
	store.seedItem(itemGasas, clinicA, "Gasas estériles", 500)
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_CreaFilaYAcumula(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)

	in := inventory.ReceiveInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Quantity: 10,
	}
	require.NoError(t, engine.Receive(context.Background(), in))
	assert.Equal(t, int64(10), store.quantity(itemGasas, locSalaA))

	// Una segunda recepción acumula sobre la misma fila, no crea otra.
	require.NoError(t, engine.Receive(context.Background(), in))
	assert.Equal(t, int64(20), store.quantity(itemGasas, locSalaA))
	assert.Len(t, store.stock, 1, "debe existir una sola fila por (insumo, ubicación)")

	require.Len(t, store.movements, 2)
	m := store.movements[0]
	assert.Equal(t, entity.MovementKindRECEIVE, m.Kind)
	assert.Equal(t, entity.DirectionIncrease, m.Direction)
	assert.Equal(t, int64(10), m.Quantity)
	assert.Nil(t, m.FromLocationID)
	assert.Equal(t, userDra, m.CreatedBy)
	assert.True(t, m.TotalCost.Equal(decimal.NewFromInt(5000)), "total = 10 x 500")
}

func TestReceive_CostoUnitarioPuntual(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)

	precioCompra := decimal.NewFromInt(450)
	require.NoError(t, engine.Receive(context.Background(), inventory.ReceiveInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Quantity: 4,
		UnitCost: &precioCompra,
	}))
	require.Len(t, store.movements, 1)
	assert.True(t, store.movements[0].UnitCost.Equal(precioCompra))
	assert.True(t, store.movements[0].TotalCost.Equal(decimal.NewFromInt(1800)))
}

func TestReceive_EntradasInvalidas(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)

	casos := []inventory.ReceiveInput{
		{ClinicID: clinicA, ItemID: itemGasas, LocationID: locSalaA, Quantity: 0},
		{ClinicID: clinicA, ItemID: itemGasas, LocationID: locSalaA, Quantity: -3},
		{ClinicID: clinicA, ItemID: "", LocationID: locSalaA, Quantity: 1},
		{ClinicID: clinicA, ItemID: itemGasas, LocationID: "", Quantity: 1},
	}
	for _, in := range casos {
		assert.ErrorIs(t, engine.Receive(context.Background(), in), domain.ErrInvalidInput)
	}
	assert.Empty(t, store.movements, "una entrada inválida no deja rastro en el log")
}

func TestReceive_InsumoDeOtraClinica(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedItem("item-ajeno", clinicB, "Anestesia", 900)

	err := engine.Receive(context.Background(), inventory.ReceiveInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: "item-ajeno", LocationID: locSalaA, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrCrossAccount)
	assert.Empty(t, store.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consume
// ──────────────────────────────────────────────────────────────────────────────

func TestConsume_DescuentaYRegistra(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locSalaA, 10)

	require.NoError(t, engine.Consume(context.Background(), inventory.ConsumeInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Quantity: 4,
		Reference: "endodoncia-123",
	}))
	assert.Equal(t, int64(6), store.quantity(itemGasas, locSalaA))

	require.Len(t, store.movements, 1)
	m := store.movements[0]
	assert.Equal(t, entity.MovementKindCONSUME, m.Kind)
	assert.Equal(t, entity.DirectionDecrease, m.Direction)
	assert.Equal(t, "endodoncia-123", m.Reference)
	assert.True(t, m.TotalCost.Equal(decimal.NewFromInt(2000)), "costo leído del catálogo al consumir")
}

func TestConsume_InsuficienteReportaActualYPedido(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locSalaA, 4)

	err := engine.Consume(context.Background(), inventory.ConsumeInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Quantity: 5,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var detail *domain.InsufficientStockError
	require.ErrorAs(t, err, &detail)
	assert.Equal(t, int64(4), detail.Current)
	assert.Equal(t, int64(5), detail.Requested)

	// Rollback completo: la cantidad no cambió y no hay fila de auditoría.
	assert.Equal(t, int64(4), store.quantity(itemGasas, locSalaA))
	assert.Empty(t, store.movements)
}

func TestConsume_FilaInexistenteEsInsuficiente(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)

	err := engine.Consume(context.Background(), inventory.ConsumeInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Quantity: 1,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var detail *domain.InsufficientStockError
	require.ErrorAs(t, err, &detail)
	assert.Equal(t, int64(0), detail.Current)
}

func TestConsume_HastaCeroConservaLaFila(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locSalaA, 3)

	require.NoError(t, engine.Consume(context.Background(), inventory.ConsumeInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Quantity: 3,
	}))
	_, existe := store.stock[stockKey{itemGasas, locSalaA}]
	assert.True(t, existe, "la fila en cero se retiene, no se borra")
	assert.Equal(t, int64(0), store.quantity(itemGasas, locSalaA))
}

// Consumos concurrentes sobre la misma fila jamás dejan cantidad negativa:
// exactamente los que caben tienen éxito y el resto recibe stock insuficiente.
func TestConsume_ConcurrenciaNoNegatividad(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locSalaA, 5)

	const consumidores = 10
	var wg sync.WaitGroup
	errs := make([]error, consumidores)
	for i := 0; i < consumidores; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = engine.Consume(context.Background(), inventory.ConsumeInput{
				ClinicID: clinicA, UserID: userDra,
				ItemID: itemGasas, LocationID: locSalaA, Quantity: 1,
			})
		}(i)
	}
	wg.Wait()

	exitos := 0
	for _, err := range errs {
		if err == nil {
			exitos++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 5, exitos, "solo caben 5 consumos de 1 sobre 5 unidades")
	assert.Equal(t, int64(0), store.quantity(itemGasas, locSalaA))
	assert.Len(t, store.movements, 5, "una fila de auditoría por consumo confirmado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer / Assign
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_ConservaElTotal(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locSalaA, 10)

	require.NoError(t, engine.Transfer(context.Background(), inventory.TransferInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, FromLocationID: locSalaA, ToLocationID: locSalaB, Quantity: 4,
	}))
	assert.Equal(t, int64(6), store.quantity(itemGasas, locSalaA))
	assert.Equal(t, int64(4), store.quantity(itemGasas, locSalaB))

	// UNA sola fila de log con ambos extremos.
	require.Len(t, store.movements, 1)
	m := store.movements[0]
	assert.Equal(t, entity.MovementKindTRANSFER, m.Kind)
	require.NotNil(t, m.FromLocationID)
	assert.Equal(t, locSalaA, *m.FromLocationID)
	assert.Equal(t, locSalaB, m.LocationID)
}

func TestTransfer_InsuficienteHaceRollback(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locSalaA, 3)

	err := engine.Transfer(context.Background(), inventory.TransferInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, FromLocationID: locSalaA, ToLocationID: locSalaB, Quantity: 5,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), store.quantity(itemGasas, locSalaA))
	assert.Equal(t, int64(0), store.quantity(itemGasas, locSalaB))
	assert.Empty(t, store.movements)
}

func TestTransfer_MismoOrigenYDestino(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locSalaA, 10)

	err := engine.Transfer(context.Background(), inventory.TransferInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, FromLocationID: locSalaA, ToLocationID: locSalaA, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssign_SaleDelPoolComun(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locPool, 20)
	store.seedStock(itemGasas, locSalaA, 2)

	require.NoError(t, engine.AssignToLocation(context.Background(), inventory.AssignInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Quantity: 5,
	}))
	assert.Equal(t, int64(15), store.quantity(itemGasas, locPool))
	assert.Equal(t, int64(7), store.quantity(itemGasas, locSalaA), "acumula sobre la fila existente")

	require.Len(t, store.movements, 1)
	m := store.movements[0]
	assert.Equal(t, entity.MovementKindASSIGN, m.Kind)
	require.NotNil(t, m.FromLocationID)
	assert.Equal(t, locPool, *m.FromLocationID)
}

func TestAssign_AlPoolEsInvalido(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locPool, 20)

	err := engine.AssignToLocation(context.Background(), inventory.AssignInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locPool, Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Adjust
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_PositivoYNegativo(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locSalaA, 10)

	require.NoError(t, engine.Adjust(context.Background(), inventory.AdjustInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Delta: 3, Reference: "conteo físico",
	}))
	assert.Equal(t, int64(13), store.quantity(itemGasas, locSalaA))

	require.NoError(t, engine.Adjust(context.Background(), inventory.AdjustInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Delta: -5, Reference: "merma",
	}))
	assert.Equal(t, int64(8), store.quantity(itemGasas, locSalaA))

	require.Len(t, store.movements, 2)
	assert.Equal(t, entity.DirectionIncrease, store.movements[0].Direction)
	assert.Equal(t, entity.DirectionDecrease, store.movements[1].Direction)
	assert.Equal(t, int64(5), store.movements[1].Quantity, "la magnitud siempre es positiva")
}

func TestAdjust_NegativoConGuarda(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locSalaA, 2)

	err := engine.Adjust(context.Background(), inventory.AdjustInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Delta: -3,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), store.quantity(itemGasas, locSalaA))
}

func TestAdjust_DeltaCeroEsInvalido(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)

	err := engine.Adjust(context.Background(), inventory.AdjustInput{
		ClinicID: clinicA, UserID: userDra,
		ItemID: itemGasas, LocationID: locSalaA, Delta: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Umbrales
// ──────────────────────────────────────────────────────────────────────────────

func TestSetThreshold_FijaYQuita(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	store.seedStock(itemGasas, locSalaA, 10)

	umbral := int64(5)
	require.NoError(t, engine.SetThreshold(context.Background(), inventory.ThresholdInput{
		ClinicID: clinicA, ItemID: itemGasas, LocationID: locSalaA, Threshold: &umbral,
	}))
	s := store.stock[stockKey{itemGasas, locSalaA}]
	require.NotNil(t, s.Threshold)
	assert.Equal(t, int64(5), *s.Threshold)
	assert.Empty(t, store.movements, "fijar umbral no escribe en el log")

	require.NoError(t, engine.SetThreshold(context.Background(), inventory.ThresholdInput{
		ClinicID: clinicA, ItemID: itemGasas, LocationID: locSalaA, Threshold: nil,
	}))
	assert.Nil(t, store.stock[stockKey{itemGasas, locSalaA}].Threshold)
}

func TestSetThreshold_NegativoEsInvalido(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)

	umbral := int64(-1)
	err := engine.SetThreshold(context.Background(), inventory.ThresholdInput{
		ClinicID: clinicA, ItemID: itemGasas, LocationID: locSalaA, Threshold: &umbral,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría
// ──────────────────────────────────────────────────────────────────────────────

// Todo movimiento confirmado produce exactamente una fila de log y el agregado
// del log reproduce el estado actual.
func TestAuditoria_ElLogReproduceElEstado(t *testing.T) {
	engine, store := newEngine()
	seedClinic(store)
	ctx := context.Background()

	require.NoError(t, engine.Receive(ctx, inventory.ReceiveInput{
		ClinicID: clinicA, UserID: userDra, ItemID: itemGasas, LocationID: locPool, Quantity: 20}))
	require.NoError(t, engine.AssignToLocation(ctx, inventory.AssignInput{
		ClinicID: clinicA, UserID: userDra, ItemID: itemGasas, LocationID: locSalaA, Quantity: 8}))
	require.NoError(t, engine.Transfer(ctx, inventory.TransferInput{
		ClinicID: clinicA, UserID: userDra, ItemID: itemGasas,
		FromLocationID: locSalaA, ToLocationID: locSalaB, Quantity: 3}))
	require.NoError(t, engine.Consume(ctx, inventory.ConsumeInput{
		ClinicID: clinicA, UserID: userDra, ItemID: itemGasas, LocationID: locSalaA, Quantity: 2}))

	require.Len(t, store.movements, 4, "una fila por operación, también en traslados")

	aggs, err := (&fakeMovementRepo{store: store}).AggregateByItemLocation(ctx, clinicA, nil, nil)
	require.NoError(t, err)
	porUbicacion := make(map[string]int64)
	for _, a := range aggs {
		porUbicacion[a.LocationID] = a.Quantity
	}
	assert.Equal(t, store.quantity(itemGasas, locPool), porUbicacion[locPool])
	assert.Equal(t, store.quantity(itemGasas, locSalaA), porUbicacion[locSalaA])
	assert.Equal(t, store.quantity(itemGasas, locSalaB), porUbicacion[locSalaB])
}
