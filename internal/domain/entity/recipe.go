package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe asocia un producto terminado con los ingredientes necesarios para
// producir un lote. El precio de venta vive en el producto terminado, no en
// la receta: es una propiedad del nombre, reutilizable entre lotes.
type Recipe struct {
	ID                string
	FinishedProductID string
	Lines             []RecipeLine
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RecipeLine una línea de receta: ingrediente y cantidad requerida por lote.
type RecipeLine struct {
	IngredientProductID string
	Quantity            decimal.Decimal // > 0
}
