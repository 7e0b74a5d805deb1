package inventory_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dentalia/insumos-api/internal/application/inventory"
	"github.com/dentalia/insumos-api/internal/domain"
	"github.com/dentalia/insumos-api/internal/domain/entity"
	domaininv "github.com/dentalia/insumos-api/internal/domain/inventory"
	"github.com/dentalia/insumos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria para los tests del motor.
//
// El fakeTxRunner serializa las transacciones con un mutex (equivalente al
// aislamiento que dan los row-locks en PostgreSQL) y toma un snapshot antes de
// ejecutar el cuerpo: si falla, restaura el estado completo, emulando rollback.
// ──────────────────────────────────────────────────────────────────────────────

type stockKey struct{ itemID, locationID string }

type memStore struct {
	mu        sync.Mutex
	items     map[string]entity.Item
	locations map[string]entity.Location
	stock     map[stockKey]entity.Stock
	movements []entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{
		items:     make(map[string]entity.Item),
		locations: make(map[string]entity.Location),
		stock:     make(map[stockKey]entity.Stock),
	}
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for k, v := range s.items {
		snap.items[k] = v
	}
	for k, v := range s.locations {
		snap.locations[k] = v
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	snap.movements = append([]entity.StockMovement(nil), s.movements...)
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.items = snap.items
	s.locations = snap.locations
	s.stock = snap.stock
	s.movements = snap.movements
}

// seedItem registra un insumo y lo devuelve.
func (s *memStore) seedItem(id, clinicID, name string, cost int64) entity.Item {
	item := entity.Item{
		ID: id, ClinicID: clinicID, Name: name,
		CostPerUnit: decimal.NewFromInt(cost),
		CreatedAt:   time.Now(), UpdatedAt: time.Now(),
	}
	s.items[id] = item
	return item
}

// seedLocation registra una ubicación.
func (s *memStore) seedLocation(id, clinicID, name string, isDefault bool) entity.Location {
	loc := entity.Location{
		ID: id, ClinicID: clinicID, Name: name, IsDefault: isDefault,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	s.locations[id] = loc
	return loc
}

// seedStock fija una existencia inicial.
func (s *memStore) seedStock(itemID, locationID string, qty int64) {
	s.stock[stockKey{itemID, locationID}] = entity.Stock{
		ItemID: itemID, LocationID: locationID, Quantity: qty, UpdatedAt: time.Now(),
	}
}

func (s *memStore) quantity(itemID, locationID string) int64 {
	return s.stock[stockKey{itemID, locationID}].Quantity
}

// ── fakeTxRunner ──────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn inventory.TxBody) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.snapshot()
	repos := inventory.TxRepos{
		Movements: &fakeMovementRepo{store: r.store},
		Stock:     &fakeStockRepo{store: r.store},
		Items:     &fakeItemRepo{store: r.store},
		Locations: &fakeLocationRepo{store: r.store},
	}
	if err := fn(repos); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// newEngine monta motor + store para un test.
func newEngine() (*inventory.MovementEngine, *memStore) {
	store := newMemStore()
	return inventory.NewMovementEngine(&fakeTxRunner{store: store}), store
}

// ── fakeStockRepo ─────────────────────────────────────────────────────────────

type fakeStockRepo struct{ store *memStore }

var _ repository.StockRepository = (*fakeStockRepo)(nil)

func (r *fakeStockRepo) Get(_ context.Context, itemID, locationID string) (*entity.Stock, error) {
	if s, ok := r.store.stock[stockKey{itemID, locationID}]; ok {
		copia := s
		return &copia, nil
	}
	return nil, nil
}

func (r *fakeStockRepo) GetForUpdate(_ context.Context, itemID, locationID string) (*entity.Stock, error) {
	if s, ok := r.store.stock[stockKey{itemID, locationID}]; ok {
		copia := s
		return &copia, nil
	}
	return &entity.Stock{ItemID: itemID, LocationID: locationID}, nil
}

func (r *fakeStockRepo) LockPair(_ context.Context, _, _, _ string) error {
	// El fakeTxRunner ya serializa las transacciones.
	return nil
}

func (r *fakeStockRepo) AddQuantity(_ context.Context, itemID, locationID string, delta int64) error {
	key := stockKey{itemID, locationID}
	s := r.store.stock[key]
	s.ItemID, s.LocationID = itemID, locationID
	s.Quantity += delta
	s.UpdatedAt = time.Now()
	r.store.stock[key] = s
	return nil
}

func (r *fakeStockRepo) Subtract(_ context.Context, itemID, locationID string, qty int64) (bool, error) {
	key := stockKey{itemID, locationID}
	s, ok := r.store.stock[key]
	if !ok || s.Quantity < qty {
		return false, nil
	}
	s.Quantity -= qty
	s.UpdatedAt = time.Now()
	r.store.stock[key] = s
	return true, nil
}

func (r *fakeStockRepo) SetThreshold(_ context.Context, itemID, locationID string, threshold *int64) error {
	key := stockKey{itemID, locationID}
	s := r.store.stock[key]
	s.ItemID, s.LocationID = itemID, locationID
	s.Threshold = threshold
	s.UpdatedAt = time.Now()
	r.store.stock[key] = s
	return nil
}

func (r *fakeStockRepo) HasStockForItem(_ context.Context, itemID string) (bool, error) {
	for k, s := range r.store.stock {
		if k.itemID == itemID && s.Quantity > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStockRepo) HasStockForLocation(_ context.Context, locationID string) (bool, error) {
	for k, s := range r.store.stock {
		if k.locationID == locationID && s.Quantity > 0 {
			return true, nil
		}
	}
	return false, nil
}

// ── fakeItemRepo ──────────────────────────────────────────────────────────────

type fakeItemRepo struct{ store *memStore }

var _ repository.ItemRepository = (*fakeItemRepo)(nil)

func (r *fakeItemRepo) Create(_ context.Context, item *entity.Item) error {
	nameKey := domaininv.NameKey(item.Name)
	for _, existing := range r.store.items {
		if existing.ClinicID != item.ClinicID {
			continue
		}
		if domaininv.NameKey(existing.Name) == nameKey {
			return domain.ErrDuplicateIdentifier
		}
		if item.Barcode != "" && existing.Barcode == item.Barcode {
			return domain.ErrDuplicateIdentifier
		}
	}
	r.store.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	if item, ok := r.store.items[id]; ok {
		copia := item
		return &copia, nil
	}
	return nil, nil
}

func (r *fakeItemRepo) GetByBarcode(_ context.Context, clinicID, barcode string) (*entity.Item, error) {
	for _, item := range r.store.items {
		if item.ClinicID == clinicID && item.Barcode == barcode {
			copia := item
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) GetByNameKey(_ context.Context, clinicID, nameKey string) (*entity.Item, error) {
	for _, item := range r.store.items {
		if item.ClinicID == clinicID && domaininv.NameKey(item.Name) == nameKey {
			copia := item
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.store.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) UpdateCost(_ context.Context, itemID string, cost decimal.Decimal) error {
	item := r.store.items[itemID]
	item.CostPerUnit = cost
	r.store.items[itemID] = item
	return nil
}

func (r *fakeItemRepo) ListByClinic(_ context.Context, clinicID string, _, _ int) ([]*entity.Item, error) {
	var list []*entity.Item
	for _, item := range r.store.items {
		if item.ClinicID == clinicID {
			copia := item
			list = append(list, &copia)
		}
	}
	return list, nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id string) error {
	delete(r.store.items, id)
	return nil
}

// ── fakeLocationRepo ──────────────────────────────────────────────────────────

type fakeLocationRepo struct{ store *memStore }

var _ repository.LocationRepository = (*fakeLocationRepo)(nil)

func (r *fakeLocationRepo) Create(_ context.Context, location *entity.Location) error {
	r.store.locations[location.ID] = *location
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	if loc, ok := r.store.locations[id]; ok {
		copia := loc
		return &copia, nil
	}
	return nil, nil
}

func (r *fakeLocationRepo) GetDefault(_ context.Context, clinicID string) (*entity.Location, error) {
	for _, loc := range r.store.locations {
		if loc.ClinicID == clinicID && loc.IsDefault {
			copia := loc
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *fakeLocationRepo) Update(_ context.Context, location *entity.Location) error {
	r.store.locations[location.ID] = *location
	return nil
}

func (r *fakeLocationRepo) ListByClinic(_ context.Context, clinicID string, _, _ int) ([]*entity.Location, error) {
	var list []*entity.Location
	for _, loc := range r.store.locations {
		if loc.ClinicID == clinicID {
			copia := loc
			list = append(list, &copia)
		}
	}
	return list, nil
}

func (r *fakeLocationRepo) Delete(_ context.Context, id string) error {
	delete(r.store.locations, id)
	return nil
}

// ── fakeMovementRepo ──────────────────────────────────────────────────────────

type fakeMovementRepo struct{ store *memStore }

var _ repository.StockMovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	r.store.movements = append(r.store.movements, *movement)
	return nil
}

func (r *fakeMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			copia := m
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByClinic(_ context.Context, clinicID string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		if r.store.movements[i].ClinicID == clinicID {
			copia := r.store.movements[i]
			list = append(list, &copia)
		}
	}
	return list, nil
}

func (r *fakeMovementRepo) AggregateByItemLocation(_ context.Context, clinicID string, _, _ *time.Time) ([]repository.MovementAggregate, error) {
	totals := make(map[stockKey]*repository.MovementAggregate)
	add := func(itemID, locationID string, delta int64, cost decimal.Decimal) {
		key := stockKey{itemID, locationID}
		agg, ok := totals[key]
		if !ok {
			agg = &repository.MovementAggregate{ItemID: itemID, LocationID: locationID, TotalCost: decimal.Zero}
			totals[key] = agg
		}
		agg.Quantity += delta
		agg.TotalCost = agg.TotalCost.Add(cost)
	}
	for _, m := range r.store.movements {
		if m.ClinicID != clinicID {
			continue
		}
		delta, cost := m.Quantity, m.TotalCost
		if m.Direction == entity.DirectionDecrease {
			delta, cost = -delta, cost.Neg()
		}
		add(m.ItemID, m.LocationID, delta, cost)
		if m.FromLocationID != nil {
			add(m.ItemID, *m.FromLocationID, -m.Quantity, m.TotalCost.Neg())
		}
	}
	var list []repository.MovementAggregate
	for _, agg := range totals {
		list = append(list, *agg)
	}
	return list, nil
}
