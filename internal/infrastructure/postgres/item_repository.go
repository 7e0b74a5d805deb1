package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dentalia/insumos-api/internal/domain"
	"github.com/dentalia/insumos-api/internal/domain/entity"
	domaininv "github.com/dentalia/insumos-api/internal/domain/inventory"
	"github.com/dentalia/insumos-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para insumos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, clinic_id, name, unit, cost_per_unit, barcode, category_id, supplier_id, created_at, updated_at`

// Create persiste un nuevo insumo. La clave normalizada de nombre se calcula aquí
// para que el match idempotente por nombre no dependa del caller.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, clinic_id, name, name_key, unit, cost_per_unit, barcode, category_id, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.ClinicID, item.Name, domaininv.NameKey(item.Name), item.Unit,
		item.CostPerUnit, nullable(item.Barcode), nullable(item.CategoryID),
		nullable(item.SupplierID), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIdentifier
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByBarcode busca por código de escaneo dentro de la clínica; nil si no hay.
func (r *ItemRepo) GetByBarcode(ctx context.Context, clinicID, barcode string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE clinic_id = $1 AND barcode = $2`
	return r.getOne(ctx, query, clinicID, barcode)
}

// GetByNameKey busca por la clave normalizada de nombre dentro de la clínica.
func (r *ItemRepo) GetByNameKey(ctx context.Context, clinicID, nameKey string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE clinic_id = $1 AND name_key = $2`
	return r.getOne(ctx, query, clinicID, nameKey)
}

// Update actualiza los atributos de catálogo del insumo.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, name_key = $3, unit = $4, barcode = $5,
		       category_id = $6, supplier_id = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, domaininv.NameKey(item.Name), item.Unit,
		nullable(item.Barcode), nullable(item.CategoryID), nullable(item.SupplierID),
		item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateIdentifier
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateCost actualiza solo el costo por unidad (gestión de catálogo; el ledger
// lee este valor al momento de cada movimiento).
func (r *ItemRepo) UpdateCost(ctx context.Context, itemID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE items SET cost_per_unit = $2, updated_at = now() WHERE id = $1`,
		itemID, cost,
	)
	if err != nil {
		return fmt.Errorf("update item cost: %w", err)
	}
	return nil
}

// ListByClinic lista insumos por clínica con paginación.
func (r *ItemRepo) ListByClinic(ctx context.Context, clinicID string, limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items WHERE clinic_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, clinicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Delete elimina un insumo. El caller verifica antes que no quede stock; la FK
// del log es soft (solo id), así que el historial sobrevive al borrado.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (r *ItemRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	var barcode, categoryID, supplierID *string
	err := row.Scan(
		&i.ID, &i.ClinicID, &i.Name, &i.Unit, &i.CostPerUnit,
		&barcode, &categoryID, &supplierID, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if barcode != nil {
		i.Barcode = *barcode
	}
	if categoryID != nil {
		i.CategoryID = *categoryID
	}
	if supplierID != nil {
		i.SupplierID = *supplierID
	}
	return &i, nil
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
