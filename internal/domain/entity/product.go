package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una materia prima o un producto terminado.
// Cost es el costo unitario promedio ponderado (centavos con fracción),
// recalculado en cada reaprovisionamiento. PriceCents es el precio de venta
// en centavos: los valores monetarios persistidos son enteros en la unidad
// mínima de la moneda para evitar deriva por redondeo.
type Product struct {
	ID         string
	Name       string // único
	Unit       string // kg, g, unité, pièce...
	PriceCents int64  // precio de venta; 0 = sin precio asignado
	Cost       decimal.Decimal
	Finished   bool // true = salida de una receta, vendible en boutique
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
