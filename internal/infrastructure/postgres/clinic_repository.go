package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dentalia/insumos-api/internal/domain/entity"
	"github.com/dentalia/insumos-api/internal/domain/repository"
)

var _ repository.ClinicRepository = (*ClinicRepo)(nil)

// ClinicRepo implementación del puerto ClinicRepository sobre PostgreSQL.
type ClinicRepo struct {
	q Querier
}

// NewClinicRepository construye el adaptador.
func NewClinicRepository(q Querier) *ClinicRepo {
	return &ClinicRepo{q: q}
}

const clinicColumns = `id, name, email, phone, subscription_active, subscription_until, created_at, updated_at`

// Create persiste una nueva clínica.
func (r *ClinicRepo) Create(ctx context.Context, clinic *entity.Clinic) error {
	query := `
		INSERT INTO clinics (` + clinicColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		clinic.ID, clinic.Name, clinic.Email, clinic.Phone,
		clinic.SubscriptionActive, clinic.SubscriptionUntil, clinic.CreatedAt, clinic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert clinic: %w", err)
	}
	return nil
}

// GetByID obtiene una clínica por ID.
func (r *ClinicRepo) GetByID(ctx context.Context, id string) (*entity.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE id = $1`
	var c entity.Clinic
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone,
		&c.SubscriptionActive, &c.SubscriptionUntil, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return &c, nil
}

// SetSubscription actualiza el flag de suscripción (lo invoca el webhook de facturación).
func (r *ClinicRepo) SetSubscription(ctx context.Context, clinicID string, active bool, until *time.Time) error {
	query := `
		UPDATE clinics SET subscription_active = $2, subscription_until = $3, updated_at = now()
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, clinicID, active, until)
	if err != nil {
		return fmt.Errorf("set subscription: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("set subscription: clínica %s no existe", clinicID)
	}
	return nil
}

// ListActive devuelve las clínicas con suscripción vigente.
func (r *ClinicRepo) ListActive(ctx context.Context) ([]*entity.Clinic, error) {
	query := `
		SELECT ` + clinicColumns + `
		FROM clinics
		WHERE subscription_active AND (subscription_until IS NULL OR subscription_until > now())
		ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active clinics: %w", err)
	}
	defer rows.Close()
	var list []*entity.Clinic
	for rows.Next() {
		var c entity.Clinic
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone,
			&c.SubscriptionActive, &c.SubscriptionUntil, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// HasActiveSubscription informa si la clínica puede operar: flag activo y sin vencer.
func (r *ClinicRepo) HasActiveSubscription(ctx context.Context, clinicID string) (bool, error) {
	query := `
		SELECT subscription_active AND (subscription_until IS NULL OR subscription_until > now())
		FROM clinics WHERE id = $1`
	var active bool
	err := r.q.QueryRow(ctx, query, clinicID).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("has active subscription: %w", err)
	}
	return active, nil
}
