package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Boulangerie-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Stock 10 @ 100, entra 10 @ 200 → promedio 150.
func TestWeightedAverageCost_Promedia(t *testing.T) {
	got := inventory.WeightedAverageCost(d("10"), d("100"), d("10"), d("200"))
	assert.True(t, got.Equal(d("150")), "esperado 150, obtenido %s", got)
}

// Sin stock previo el costo es el de la entrada.
func TestWeightedAverageCost_SinStockPrevio(t *testing.T) {
	got := inventory.WeightedAverageCost(decimal.Zero, decimal.Zero, d("5"), d("320"))
	assert.True(t, got.Equal(d("320")))
}

// Cantidades fraccionarias (kg) mantienen precisión decimal.
func TestWeightedAverageCost_Fraccionario(t *testing.T) {
	// 1.5 kg @ 200 + 0.5 kg @ 400 = (300+200)/2 = 250
	got := inventory.WeightedAverageCost(d("1.5"), d("200"), d("0.5"), d("400"))
	assert.True(t, got.Equal(d("250")), "obtenido %s", got)
}

// Suma no positiva devuelve cero en lugar de dividir por cero.
func TestWeightedAverageCost_SumaCero(t *testing.T) {
	got := inventory.WeightedAverageCost(decimal.Zero, d("100"), decimal.Zero, d("200"))
	assert.True(t, got.IsZero())
}
