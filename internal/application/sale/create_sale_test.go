package sale_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Boulangerie-api/internal/application/apptest"
	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/application/sale"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// setupVenta: X a 500 ¢ con 5 en boutique, Y a 1000 ¢ con 3, Z a 200 ¢ con 4.
func setupVenta() (*apptest.Store, *sale.CreateSaleUseCase) {
	store := apptest.NewStore()
	store.SeedProduct(&entity.Product{ID: "x", Name: "Croissant x12", PriceCents: 500, Finished: true})
	store.SeedProduct(&entity.Product{ID: "y", Name: "Brioche", PriceCents: 1000, Finished: true})
	store.SeedProduct(&entity.Product{ID: "z", Name: "Baguette", PriceCents: 200, Finished: true})
	store.SeedStock("x", entity.TierBoutique, d("5"), decimal.Zero)
	store.SeedStock("y", entity.TierBoutique, d("3"), decimal.Zero)
	store.SeedStock("z", entity.TierBoutique, d("4"), decimal.Zero)

	uc := sale.NewCreateSaleUseCase(
		&apptest.TxRunner{S: store},
		&apptest.ProductRepo{S: store},
		&apptest.StockRepo{S: store},
		&apptest.SaleRepo{S: store},
		ledger.NewStockLedger(),
	)
	return store, uc
}

// Escenario A: X×2 @500 + Y×1 @1000, entregado 3000 → total 2000, vuelto
// 1000, X→3, Y→2, una venta validada.
func TestCreate_VentaValida(t *testing.T) {
	store, uc := setupVenta()

	res, err := uc.Create(context.Background(), sale.CreateInput{
		Items: []sale.LineInput{
			{ProductID: "x", Quantity: d("2")},
			{ProductID: "y", Quantity: d("1")},
		},
		AmountGivenCents: 3000,
		Seller:           "vend-1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2000), res.Sale.TotalCents)
	assert.Equal(t, int64(1000), res.ChangeCents)
	assert.Equal(t, entity.SaleStatusValidated, res.Sale.Status)
	assert.Len(t, res.Sale.Items, 2)

	assert.True(t, store.Available("x", entity.TierBoutique).Equal(d("3")))
	assert.True(t, store.Available("y", entity.TierBoutique).Equal(d("2")))
	assert.Len(t, store.MovementsByKind(entity.MovementKindSale), 2)
	assert.Len(t, store.Sales, 1)
}

// Escenario C: Z×10 contra 4 disponibles → InsufficientStock, cero
// movimientos, stock intacto.
func TestCreate_FaltanteAbortaTodo(t *testing.T) {
	store, uc := setupVenta()

	_, err := uc.Create(context.Background(), sale.CreateInput{
		Items:            []sale.LineInput{{ProductID: "z", Quantity: d("10")}},
		AmountGivenCents: 5000,
		Seller:           "vend-1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	require.Len(t, insErr.Items, 1)
	assert.True(t, insErr.Items[0].Available.Equal(d("4")))

	assert.True(t, store.Available("z", entity.TierBoutique).Equal(d("4")))
	assert.Empty(t, store.Movements)
	assert.Empty(t, store.Sales)
}

// Faltan varias líneas: se reportan todas, no solo la primera.
func TestCreate_ReportaTodosLosFaltantes(t *testing.T) {
	_, uc := setupVenta()

	_, err := uc.Create(context.Background(), sale.CreateInput{
		Items: []sale.LineInput{
			{ProductID: "x", Quantity: d("6")},
			{ProductID: "y", Quantity: d("4")},
		},
		AmountGivenCents: 99999,
		Seller:           "vend-1",
	})
	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Len(t, insErr.Items, 2)
}

func TestCreate_PagoInsuficiente(t *testing.T) {
	store, uc := setupVenta()

	_, err := uc.Create(context.Background(), sale.CreateInput{
		Items:            []sale.LineInput{{ProductID: "x", Quantity: d("2")}},
		AmountGivenCents: 999, // total 1000
		Seller:           "vend-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
	assert.True(t, store.Available("x", entity.TierBoutique).Equal(d("5")))
	assert.Empty(t, store.Movements)
}

func TestCreate_PrecioExplicitoPorLinea(t *testing.T) {
	_, uc := setupVenta()

	res, err := uc.Create(context.Background(), sale.CreateInput{
		Items:            []sale.LineInput{{ProductID: "x", Quantity: d("1"), UnitPriceCents: 450}},
		AmountGivenCents: 450,
		Seller:           "vend-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(450), res.Sale.TotalCents)
	assert.Equal(t, int64(0), res.ChangeCents)
}

func TestCreate_Valida(t *testing.T) {
	_, uc := setupVenta()
	ctx := context.Background()

	_, err := uc.Create(ctx, sale.CreateInput{Seller: "v"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, sale.CreateInput{
		Items:  []sale.LineInput{{ProductID: "x", Quantity: d("0")}},
		Seller: "v",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, sale.CreateInput{
		Items:            []sale.LineInput{{ProductID: "nope", Quantity: d("1")}},
		AmountGivenCents: 1000,
		Seller:           "v",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Los tickets son únicos y monotónicos dentro del día.
func TestCreate_TicketsMonotonicosPorDia(t *testing.T) {
	_, uc := setupVenta()
	ctx := context.Background()

	day := time.Now().Format("20060102")
	var tickets []string
	for i := 0; i < 3; i++ {
		res, err := uc.Create(ctx, sale.CreateInput{
			Items:            []sale.LineInput{{ProductID: "x", Quantity: d("1")}},
			AmountGivenCents: 500,
			Seller:           "vend-1",
		})
		require.NoError(t, err)
		tickets = append(tickets, res.Sale.TicketNumber)
	}
	for i, tk := range tickets {
		assert.Equal(t, fmt.Sprintf("VTE-%s-%04d", day, i+1), tk)
	}
}
