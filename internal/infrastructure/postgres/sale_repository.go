package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, ticket_number, total_cents, amount_given_cents, change_cents, status, seller, created_at, cancelled_at`

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, ticket_number, total_cents, amount_given_cents, change_cents, status, seller, created_at, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.TicketNumber, s.TotalCents, s.AmountGivenCents, s.ChangeCents,
		s.Status, s.Seller, s.CreatedAt, s.CancelledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price_cents, subtotal_cents)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPriceCents, item.SubtotalCents,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una venta.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.getOne(`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la venta bloqueando la fila (SELECT FOR UPDATE):
// dos anulaciones concurrentes de la misma venta se serializan aquí.
func (r *SaleRepo) GetByIDForUpdate(id string) (*entity.Sale, error) {
	return r.getOne(`SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) getOne(query, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.TicketNumber, &s.TotalCents, &s.AmountGivenCents, &s.ChangeCents,
		&s.Status, &s.Seller, &s.CreatedAt, &s.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetItems lista las líneas de una venta.
func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price_cents, subtotal_cents
		FROM sale_items WHERE sale_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPriceCents, &it.SubtotalCents); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// MarkCancelled transiciona validated → cancelled. El WHERE sobre status hace
// la transición idempotente a nivel de fila.
func (r *SaleRepo) MarkCancelled(saleID string, cancelledAt time.Time) error {
	query := `
		UPDATE sales SET status = $2, cancelled_at = $3
		WHERE id = $1 AND status = $4`
	cmd, err := r.q.Exec(context.Background(), query,
		saleID, entity.SaleStatusCancelled, cancelledAt, entity.SaleStatusValidated,
	)
	if err != nil {
		return fmt.Errorf("mark sale cancelled: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadyCancelled
	}
	return nil
}

// CreateCancellation inserta la fila de auditoría de anulación (una por venta).
func (r *SaleRepo) CreateCancellation(audit *entity.SaleCancellation) error {
	query := `
		INSERT INTO sale_cancellations (sale_id, amount_cents, reason, cancelled_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		audit.SaleID, audit.AmountCents, audit.Reason, audit.CancelledBy, audit.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale cancellation: %w", err)
	}
	return nil
}

// GetCancellation obtiene la fila de auditoría de una venta anulada.
func (r *SaleRepo) GetCancellation(saleID string) (*entity.SaleCancellation, error) {
	query := `
		SELECT sale_id, amount_cents, reason, cancelled_by, created_at
		FROM sale_cancellations WHERE sale_id = $1`
	var a entity.SaleCancellation
	err := r.q.QueryRow(context.Background(), query, saleID).Scan(
		&a.SaleID, &a.AmountCents, &a.Reason, &a.CancelledBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale cancellation: %w", err)
	}
	return &a, nil
}

// NextTicketSeq incrementa y devuelve el contador del día en una sola
// sentencia: el upsert serializa las ventas concurrentes en la fila del día,
// así la numeración es monotónica y sin huecos por carreras.
func (r *SaleRepo) NextTicketSeq(day time.Time) (int64, error) {
	query := `
		INSERT INTO ticket_sequences (day, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (day)
		DO UPDATE SET last_seq = ticket_sequences.last_seq + 1
		RETURNING last_seq`
	var seq int64
	err := r.q.QueryRow(context.Background(), query, day.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next ticket seq: %w", err)
	}
	return seq, nil
}

// List lista ventas con paginación.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.TicketNumber, &s.TotalCents, &s.AmountGivenCents, &s.ChangeCents,
			&s.Status, &s.Seller, &s.CreatedAt, &s.CancelledAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
