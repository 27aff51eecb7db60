package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto (solo admin).
type CreateProductRequest struct {
	Name       string `json:"name"`
	Unit       string `json:"unit"`
	PriceCents int64  `json:"price_cents"`
	Finished   bool   `json:"finished"`
}

// UpdateProductRequest modificación de datos básicos. El costo no se toca
// aquí: lo recalcula el motor de inventario en cada reaprovisionamiento.
type UpdateProductRequest struct {
	Name       string `json:"name"`
	Unit       string `json:"unit"`
	PriceCents int64  `json:"price_cents"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	PriceCents int64           `json:"price_cents"`
	Cost       decimal.Decimal `json:"cost"`
	Finished   bool            `json:"finished"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
