package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dentalia/insumos-api/internal/domain/entity"
	"github.com/dentalia/insumos-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, clinic_id, name, is_default, created_at, updated_at`

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		location.ID, location.ClinicID, location.Name, location.IsDefault,
		location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetDefault devuelve la ubicación protegida de la clínica (pool sin asignar).
func (r *LocationRepo) GetDefault(ctx context.Context, clinicID string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE clinic_id = $1 AND is_default`
	return r.getOne(ctx, query, clinicID)
}

// Update actualiza una ubicación existente.
func (r *LocationRepo) Update(ctx context.Context, location *entity.Location) error {
	query := `UPDATE locations SET name = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, location.ID, location.Name, location.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

// ListByClinic lista ubicaciones por clínica con paginación.
func (r *LocationRepo) ListByClinic(ctx context.Context, clinicID string, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations WHERE clinic_id = $1 ORDER BY is_default DESC, name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, clinicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.ClinicID, &l.Name, &l.IsDefault, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Delete elimina una ubicación. El caller verifica antes que no sea la ubicación
// por defecto y que no quede stock en ella.
func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

func (r *LocationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&l.ID, &l.ClinicID, &l.Name, &l.IsDefault, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}
