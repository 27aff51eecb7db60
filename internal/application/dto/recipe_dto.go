package dto

import "github.com/shopspring/decimal"

// RecipeLineRequest línea de receta: ingrediente y cantidad por lote.
type RecipeLineRequest struct {
	IngredientProductID string          `json:"ingredient_product_id"`
	Quantity            decimal.Decimal `json:"quantity"`
}

// DefineRecipeRequest crea o reemplaza la receta de un producto terminado.
type DefineRecipeRequest struct {
	FinishedName string              `json:"finished_name"`
	Unit         string              `json:"unit"`
	Lines        []RecipeLineRequest `json:"lines"`
}

// SetSalePriceRequest fija el precio de venta del producto terminado.
type SetSalePriceRequest struct {
	PriceCents int64 `json:"price_cents"`
}

// ProduceRequest lanza una producción de multiplier lotes hacia dest_tier.
type ProduceRequest struct {
	Multiplier int64  `json:"multiplier"`
	DestTier   string `json:"dest_tier"`
}

// ShortfallDTO faltante de un ingrediente o producto.
type ShortfallDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
	Missing   decimal.Decimal `json:"missing"`
}

// AvailabilityResponse resultado de la verificación de disponibilidad.
type AvailabilityResponse struct {
	Disponible bool           `json:"disponible"`
	Shortfalls []ShortfallDTO `json:"shortfalls"`
}

// RecipeCostResponse costo de producir un lote, a costo promedio actual.
type RecipeCostResponse struct {
	FinishedName string `json:"finished_name"`
	CostCents    int64  `json:"cost_cents"`
}

// ProduceResponse resultado de una producción.
type ProduceResponse struct {
	FinishedName string          `json:"finished_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	DestTier     string          `json:"dest_tier"`
	CostCents    int64           `json:"cost_cents"`
	BatchID      string          `json:"batch_id"`
}
