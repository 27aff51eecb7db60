package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta. unit_price_cents en cero usa el precio
// de venta vigente del producto.
type SaleLineRequest struct {
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceCents int64           `json:"unit_price_cents"`
}

// CreateSaleRequest transacción de punto de venta sobre boutique.
type CreateSaleRequest struct {
	Items            []SaleLineRequest `json:"items"`
	AmountGivenCents int64             `json:"amount_given_cents"`
}

// SaleItemResponse línea persistida de una venta.
type SaleItemResponse struct {
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceCents int64           `json:"unit_price_cents"`
	SubtotalCents  int64           `json:"subtotal_cents"`
}

// SaleResponse representación HTTP de una venta.
type SaleResponse struct {
	ID               string             `json:"id"`
	TicketNumber     string             `json:"ticket_number"`
	Items            []SaleItemResponse `json:"items"`
	TotalCents       int64              `json:"total_cents"`
	AmountGivenCents int64              `json:"amount_given_cents"`
	ChangeCents      int64              `json:"change_cents"`
	Status           string             `json:"status"`
	Seller           string             `json:"seller"`
	CreatedAt        time.Time          `json:"created_at"`
	CancelledAt      *time.Time         `json:"cancelled_at,omitempty"`
}

// CancelSaleRequest anulación de una venta validada dentro de la ventana.
type CancelSaleRequest struct {
	Reason string `json:"reason"`
}

// RestoredItemDTO línea restaurada al anular.
type RestoredItemDTO struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CancelSaleResponse resultado de la anulación: la venta queda anulada
// aunque alguna restauración falle; los fallos se reportan como warnings.
type CancelSaleResponse struct {
	SaleID        string            `json:"sale_id"`
	RestoredItems []RestoredItemDTO `json:"restored_items"`
	Warnings      []string          `json:"warnings"`
}
