package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo actual de un producto en un nivel. Registro ausente se
// lee como cantidad cero, no como error.
func (r *StockRepo) Get(productID, tier string) (*entity.StockTier, error) {
	query := `
		SELECT product_id, tier, available, consumed, updated_at
		FROM stock_tiers WHERE product_id = $1 AND tier = $2`
	var s entity.StockTier
	err := r.q.QueryRow(context.Background(), query, productID, tier).Scan(
		&s.ProductID, &s.Tier, &s.Available, &s.Consumed, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockTier{ProductID: productID, Tier: tier, Available: decimal.Zero, Consumed: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Adjust aplica el delta en una sola sentencia condicional: el UPDATE solo
// toca la fila si ningún saldo queda negativo, y el INSERT cubre la creación
// perezosa con deltas no negativos. applied=false (cero filas) significa que
// el ajuste habría violado el invariante o que la fila no existe para un
// delta negativo; no se modifica nada y el llamador decide.
func (r *StockRepo) Adjust(productID, tier string, delta, consumedDelta decimal.Decimal) (bool, error) {
	if !delta.IsNegative() && !consumedDelta.IsNegative() {
		query := `
			INSERT INTO stock_tiers (product_id, tier, available, consumed, updated_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (product_id, tier)
			DO UPDATE SET available = stock_tiers.available + EXCLUDED.available,
			              consumed  = stock_tiers.consumed + EXCLUDED.consumed,
			              updated_at = now()`
		_, err := r.q.Exec(context.Background(), query, productID, tier, delta, consumedDelta)
		if err != nil {
			return false, fmt.Errorf("adjust stock: %w", err)
		}
		return true, nil
	}

	query := `
		UPDATE stock_tiers
		SET available = available + $3, consumed = consumed + $4, updated_at = now()
		WHERE product_id = $1 AND tier = $2
		  AND available + $3 >= 0 AND consumed + $4 >= 0`
	cmd, err := r.q.Exec(context.Background(), query, productID, tier, delta, consumedDelta)
	if err != nil {
		return false, fmt.Errorf("adjust stock: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListByProduct lista los saldos de un producto en todos los niveles.
func (r *StockRepo) ListByProduct(productID string) ([]*entity.StockTier, error) {
	query := `
		SELECT product_id, tier, available, consumed, updated_at
		FROM stock_tiers WHERE product_id = $1 ORDER BY tier`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTier
	for rows.Next() {
		var s entity.StockTier
		if err := rows.Scan(&s.ProductID, &s.Tier, &s.Available, &s.Consumed, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
