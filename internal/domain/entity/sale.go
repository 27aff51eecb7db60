package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. validated → cancelled a lo sumo una vez, y solo
// dentro de la ventana de anulación.
const (
	SaleStatusValidated = "validated"
	SaleStatusCancelled = "cancelled"
)

// Sale representa una transacción de punto de venta sobre el nivel boutique.
// Todos los montos en centavos.
type Sale struct {
	ID               string
	TicketNumber     string // único, secuencia monotónica por día generada por el store
	Items            []SaleItem
	TotalCents       int64
	AmountGivenCents int64
	ChangeCents      int64
	Status           string
	Seller           string // UserID
	CreatedAt        time.Time
	CancelledAt      *time.Time
}

// SaleItem una línea de venta.
type SaleItem struct {
	ID             string
	SaleID         string
	ProductID      string
	Quantity       decimal.Decimal // > 0
	UnitPriceCents int64
	SubtotalCents  int64
}

// SaleCancellation es la fila de auditoría de una anulación: una sola por
// venta anulada, append-only.
type SaleCancellation struct {
	SaleID      string
	AmountCents int64
	Reason      string // >= 10 caracteres
	CancelledBy string // UserID
	CreatedAt   time.Time
}
