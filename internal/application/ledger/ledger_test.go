package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Boulangerie-api/internal/application/apptest"
	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup() (*apptest.Store, *ledger.StockLedger, *apptest.MovementRepo, *apptest.StockRepo, *entity.Product) {
	store := apptest.NewStore()
	p := &entity.Product{ID: "p1", Name: "Farine", Unit: "kg", Cost: d("120")}
	store.SeedProduct(p)
	return store, ledger.NewStockLedger(), &apptest.MovementRepo{S: store}, &apptest.StockRepo{S: store}, p
}

func TestAdjust_EntradaCreaRegistroYMovimiento(t *testing.T) {
	store, l, movRepo, stockRepo, p := setup()
	now := time.Now()

	err := l.Adjust(movRepo, stockRepo, p, entity.TierPrincipal, d("10"), entity.MovementKindEntry, "ref-1", "u1", now)
	require.NoError(t, err)

	assert.True(t, store.Available("p1", entity.TierPrincipal).Equal(d("10")))
	require.Len(t, store.Movements, 1)
	m := store.Movements[0]
	assert.Equal(t, entity.MovementKindEntry, m.Kind)
	assert.True(t, m.Quantity.Equal(d("10")))
	assert.Equal(t, "ref-1", m.Reference)
	assert.Equal(t, "u1", m.Actor)
}

// Un delta negativo mayor al disponible se rechaza sin tocar saldo ni auditoría.
func TestAdjust_RechazaSaldoNegativo(t *testing.T) {
	store, l, movRepo, stockRepo, p := setup()
	store.SeedStock("p1", entity.TierBoutique, d("4"), decimal.Zero)

	err := l.Adjust(movRepo, stockRepo, p, entity.TierBoutique, d("-10"), entity.MovementKindSale, "v1", "u1", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	require.Len(t, insErr.Items, 1)
	assert.True(t, insErr.Items[0].Requested.Equal(d("10")))
	assert.True(t, insErr.Items[0].Available.Equal(d("4")))
	assert.True(t, insErr.Items[0].Missing().Equal(d("6")))

	assert.True(t, store.Available("p1", entity.TierBoutique).Equal(d("4")), "el saldo no debe cambiar")
	assert.Empty(t, store.Movements, "no debe registrarse movimiento alguno")
}

// Registro ausente se lee como cero; el débito sobre él es insuficiente.
func TestAdjust_RegistroAusenteEsCero(t *testing.T) {
	store, l, movRepo, stockRepo, p := setup()

	st, err := l.Get(stockRepo, "p1", entity.TierAtelier)
	require.NoError(t, err)
	assert.True(t, st.Available.IsZero())

	err = l.Adjust(movRepo, stockRepo, p, entity.TierAtelier, d("-1"), entity.MovementKindConsumption, "b1", "u1", time.Now())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, store.Movements)
}

// Consumo y restauración conservan Available + Consumed (lote único).
func TestAdjust_ConservaDisponibleMasConsumido(t *testing.T) {
	store, l, movRepo, stockRepo, p := setup()
	store.SeedStock("p1", entity.TierBoutique, d("5"), decimal.Zero)
	now := time.Now()

	require.NoError(t, l.Adjust(movRepo, stockRepo, p, entity.TierBoutique, d("-2"), entity.MovementKindSale, "v1", "u1", now))
	st, _ := stockRepo.Get("p1", entity.TierBoutique)
	assert.True(t, st.Available.Equal(d("3")))
	assert.True(t, st.Consumed.Equal(d("2")))
	assert.True(t, st.Available.Add(st.Consumed).Equal(d("5")))

	require.NoError(t, l.Adjust(movRepo, stockRepo, p, entity.TierBoutique, d("2"), entity.MovementKindRestoration, "v1", "u1", now))
	st, _ = stockRepo.Get("p1", entity.TierBoutique)
	assert.True(t, st.Available.Equal(d("5")))
	assert.True(t, st.Consumed.IsZero())
}

// Restaurar sobre un registro inexistente falla con NotFound (caso de
// anulación con hueco de bookkeeping).
func TestAdjust_RestauracionSinRegistroFalla(t *testing.T) {
	store, l, movRepo, stockRepo, p := setup()

	err := l.Adjust(movRepo, stockRepo, p, entity.TierBoutique, d("2"), entity.MovementKindRestoration, "v1", "u1", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.Movements)
}

func TestAdjust_ValidaEntrada(t *testing.T) {
	_, l, movRepo, stockRepo, p := setup()
	now := time.Now()

	assert.ErrorIs(t, l.Adjust(movRepo, stockRepo, p, "bodega", d("1"), entity.MovementKindEntry, "r", "u", now), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.Adjust(movRepo, stockRepo, p, entity.TierPrincipal, d("1"), "ajuste", "r", "u", now), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.Adjust(movRepo, stockRepo, p, entity.TierPrincipal, decimal.Zero, entity.MovementKindEntry, "r", "u", now), domain.ErrInvalidInput)
	assert.ErrorIs(t, l.Adjust(movRepo, stockRepo, nil, entity.TierPrincipal, d("1"), entity.MovementKindEntry, "r", "u", now), domain.ErrInvalidInput)
}

// Replenish recalcula el costo promedio ponderado sobre el stock global.
func TestReplenish_RecalculaCostoPromedio(t *testing.T) {
	store, l, movRepo, stockRepo, p := setup()
	productRepo := &apptest.ProductRepo{S: store}
	store.SeedStock("p1", entity.TierPrincipal, d("10"), decimal.Zero)
	now := time.Now()

	// 10 @ 120 + 10 @ 200 → promedio 160
	err := l.Replenish(movRepo, stockRepo, productRepo, p, entity.TierPrincipal, d("10"), d("200"), "compra-7", "u1", now)
	require.NoError(t, err)

	updated, _ := productRepo.GetByID("p1")
	assert.True(t, updated.Cost.Equal(d("160")), "costo obtenido %s", updated.Cost)
	assert.True(t, store.Available("p1", entity.TierPrincipal).Equal(d("20")))

	require.Len(t, store.Movements, 1)
	assert.Equal(t, entity.MovementKindEntry, store.Movements[0].Kind)
	assert.True(t, store.Movements[0].UnitCost.Equal(d("200")), "el movimiento lleva el costo de la entrada")
}

func TestReplenish_RechazaCantidadNoPositiva(t *testing.T) {
	store, l, movRepo, stockRepo, p := setup()
	productRepo := &apptest.ProductRepo{S: store}

	err := l.Replenish(movRepo, stockRepo, productRepo, p, entity.TierPrincipal, decimal.Zero, d("100"), "r", "u", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
