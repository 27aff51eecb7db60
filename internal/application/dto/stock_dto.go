package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReplenishRequest entrada de mercancía a un nivel (recalcula costo promedio).
type ReplenishRequest struct {
	ProductID     string          `json:"product_id"`
	Tier          string          `json:"tier"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCostCents int64           `json:"unit_cost_cents"`
	Reference     string          `json:"reference"`
}

// StockTierResponse saldo de un producto en un nivel.
type StockTierResponse struct {
	ProductID string          `json:"product_id"`
	Tier      string          `json:"tier"`
	Available decimal.Decimal `json:"available"`
	Consumed  decimal.Decimal `json:"consumed"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MovementResponse una fila del registro de auditoría.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Tier      string          `json:"tier"`
	Kind      string          `json:"kind"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference"`
	Actor     string          `json:"actor"`
	CreatedAt time.Time       `json:"created_at"`
}
