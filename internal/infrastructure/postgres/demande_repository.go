package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

var _ repository.DemandeRepository = (*DemandeRepo)(nil)

// DemandeRepo implementación sobre PostgreSQL (usable con pool o tx).
type DemandeRepo struct {
	q Querier
}

// NewDemandeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDemandeRepository(q Querier) *DemandeRepo {
	return &DemandeRepo{q: q}
}

// Create persiste una solicitud de traslado en estado pending.
func (r *DemandeRepo) Create(d *entity.Demande) error {
	query := `
		INSERT INTO demandes (id, product_id, quantity, source_tier, dest_tier, status, requester, validator, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.ProductID, d.Quantity, d.SourceTier, d.DestTier,
		d.Status, d.Requester, nullIfEmpty(d.Validator), d.CreatedAt, d.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert demande: %w", err)
	}
	return nil
}

// GetByID obtiene una demande por ID.
func (r *DemandeRepo) GetByID(id string) (*entity.Demande, error) {
	return r.getOne(`
		SELECT id, product_id, quantity, source_tier, dest_tier, status, requester, validator, created_at, processed_at
		FROM demandes WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la demande bloqueando la fila (SELECT FOR UPDATE):
// dos validaciones concurrentes de la misma demande se serializan aquí.
func (r *DemandeRepo) GetByIDForUpdate(id string) (*entity.Demande, error) {
	return r.getOne(`
		SELECT id, product_id, quantity, source_tier, dest_tier, status, requester, validator, created_at, processed_at
		FROM demandes WHERE id = $1
		FOR UPDATE`, id)
}

func (r *DemandeRepo) getOne(query, id string) (*entity.Demande, error) {
	var d entity.Demande
	var validator *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.ProductID, &d.Quantity, &d.SourceTier, &d.DestTier,
		&d.Status, &d.Requester, &validator, &d.CreatedAt, &d.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get demande: %w", err)
	}
	if validator != nil {
		d.Validator = *validator
	}
	return &d, nil
}

// SetStatus registra la transición terminal de la demande.
func (r *DemandeRepo) SetStatus(id, status, validator string, processedAt time.Time) error {
	query := `
		UPDATE demandes SET status = $2, validator = $3, processed_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, nullIfEmpty(validator), processedAt)
	if err != nil {
		return fmt.Errorf("update demande status: %w", err)
	}
	return nil
}

// ListByStatus lista demandes por estado con paginación. Estado vacío lista todas.
func (r *DemandeRepo) ListByStatus(status string, limit, offset int) ([]*entity.Demande, error) {
	query := `
		SELECT id, product_id, quantity, source_tier, dest_tier, status, requester, validator, created_at, processed_at
		FROM demandes`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list demandes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Demande
	for rows.Next() {
		var d entity.Demande
		var validator *string
		if err := rows.Scan(&d.ID, &d.ProductID, &d.Quantity, &d.SourceTier, &d.DestTier,
			&d.Status, &d.Requester, &validator, &d.CreatedAt, &d.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scan demande: %w", err)
		}
		if validator != nil {
			d.Validator = *validator
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
