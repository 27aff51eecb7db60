package recipe_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Boulangerie-api/internal/application/apptest"
	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/application/recipe"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// setup arma una receta "Croissant x12": 1 kg de harina + 0.2 kg de
// mantequilla por lote. Harina a 150 ¢/kg, mantequilla a 800 ¢/kg.
func setup(t *testing.T) (*apptest.Store, *recipe.RecipeUseCase) {
	t.Helper()
	store := apptest.NewStore()
	store.SeedProduct(&entity.Product{ID: "farine", Name: "Farine", Unit: "kg", Cost: d("150")})
	store.SeedProduct(&entity.Product{ID: "beurre", Name: "Beurre", Unit: "kg", Cost: d("800")})

	uc := recipe.NewRecipeUseCase(
		&apptest.TxRunner{S: store},
		&apptest.RecipeRepo{S: store},
		&apptest.ProductRepo{S: store},
		&apptest.StockRepo{S: store},
		ledger.NewStockLedger(),
	)
	_, err := uc.DefineRecipe(context.Background(), "Croissant x12", "lot", []recipe.LineInput{
		{IngredientProductID: "farine", Quantity: d("1")},
		{IngredientProductID: "beurre", Quantity: d("0.2")},
	})
	require.NoError(t, err)
	return store, uc
}

func TestDefineRecipe_CreaProductoTerminado(t *testing.T) {
	store, _ := setup(t)

	productRepo := &apptest.ProductRepo{S: store}
	finished, err := productRepo.GetByName("Croissant x12")
	require.NoError(t, err)
	require.NotNil(t, finished)
	assert.True(t, finished.Finished)
	assert.Zero(t, finished.PriceCents, "sin precio hasta SetSalePrice")
}

func TestDefineRecipe_RechazaLineaNoPositiva(t *testing.T) {
	_, uc := setup(t)
	_, err := uc.DefineRecipe(context.Background(), "Brioche", "lot", []recipe.LineInput{
		{IngredientProductID: "farine", Quantity: d("0")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Costo de un lote: 1×150 + 0.2×800 = 310 centavos.
func TestCost_SumaPonderada(t *testing.T) {
	_, uc := setup(t)
	cost, err := uc.Cost(context.Background(), "Croissant x12")
	require.NoError(t, err)
	assert.Equal(t, int64(310), cost)
}

func TestCost_RecetaInexistente(t *testing.T) {
	_, uc := setup(t)
	_, err := uc.Cost(context.Background(), "Baguette")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Escenario: 2 lotes piden 2 kg de harina y 0.4 kg de mantequilla; el atelier
// tiene 1.5 kg de harina → faltante de 0.5 kg, disponible=false, sin consumo.
func TestCheckAvailability_ReportaFaltantes(t *testing.T) {
	store, uc := setup(t)
	store.SeedStock("farine", entity.TierAtelier, d("1.5"), decimal.Zero)
	store.SeedStock("beurre", entity.TierAtelier, d("1"), decimal.Zero)

	avail, err := uc.CheckAvailability(context.Background(), "Croissant x12", 2)
	require.NoError(t, err)
	assert.False(t, avail.Disponible)
	require.Len(t, avail.Shortfalls, 1)
	sf := avail.Shortfalls[0]
	assert.Equal(t, "farine", sf.ProductID)
	assert.True(t, sf.Requested.Equal(d("2")))
	assert.True(t, sf.Available.Equal(d("1.5")))
	assert.True(t, sf.Missing().Equal(d("0.5")))

	// Lectura pura: nada cambió.
	assert.True(t, store.Available("farine", entity.TierAtelier).Equal(d("1.5")))
	assert.Empty(t, store.Movements)
}

func TestProduce_FaltanteAbortaSinConsumir(t *testing.T) {
	store, uc := setup(t)
	store.SeedStock("farine", entity.TierAtelier, d("1.5"), decimal.Zero)
	store.SeedStock("beurre", entity.TierAtelier, d("1"), decimal.Zero)

	_, err := uc.Produce(context.Background(), "Croissant x12", 2, entity.TierBoutique, "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIngredientsInsufficient)

	var ingErr *domain.IngredientsInsufficientError
	require.ErrorAs(t, err, &ingErr)
	require.Len(t, ingErr.Shortfalls, 1)
	assert.True(t, ingErr.Shortfalls[0].Missing().Equal(d("0.5")))

	assert.True(t, store.Available("farine", entity.TierAtelier).Equal(d("1.5")), "nada consumido")
	assert.True(t, store.Available("beurre", entity.TierAtelier).Equal(d("1")))
	assert.Empty(t, store.Movements)
}

// Producción exitosa: consume ingredientes del atelier, acredita el terminado
// en boutique y registra un movimiento por línea más la entrada.
func TestProduce_ConsumeYAcredita(t *testing.T) {
	store, uc := setup(t)
	store.SeedStock("farine", entity.TierAtelier, d("3"), decimal.Zero)
	store.SeedStock("beurre", entity.TierAtelier, d("1"), decimal.Zero)

	res, err := uc.Produce(context.Background(), "Croissant x12", 2, entity.TierBoutique, "u1")
	require.NoError(t, err)
	assert.True(t, res.Quantity.Equal(d("2")))
	assert.Equal(t, int64(620), res.CostCents, "2 lotes × 310")
	assert.NotEmpty(t, res.BatchID)

	assert.True(t, store.Available("farine", entity.TierAtelier).Equal(d("1")))
	assert.True(t, store.Available("beurre", entity.TierAtelier).Equal(d("0.6")))
	assert.True(t, store.Available(res.Finished.ID, entity.TierBoutique).Equal(d("2")))

	assert.Len(t, store.MovementsByKind(entity.MovementKindConsumption), 2)
	entries := store.MovementsByKind(entity.MovementKindEntry)
	require.Len(t, entries, 1)
	assert.Equal(t, res.BatchID, entries[0].Reference)

	// El costo del terminado quedó en el costo unitario del lote (310 ¢).
	finished, _ := (&apptest.ProductRepo{S: store}).GetByID(res.Finished.ID)
	assert.True(t, finished.Cost.Equal(d("310")), "costo obtenido %s", finished.Cost)
}

func TestSetSalePrice_PropiedadDelNombre(t *testing.T) {
	store, uc := setup(t)
	ctx := context.Background()

	require.NoError(t, uc.SetSalePrice(ctx, "Croissant x12", 1200, "admin"))

	finished, _ := (&apptest.ProductRepo{S: store}).GetByName("Croissant x12")
	assert.Equal(t, int64(1200), finished.PriceCents)

	assert.ErrorIs(t, uc.SetSalePrice(ctx, "Croissant x12", 0, "admin"), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.SetSalePrice(ctx, "Baguette", 500, "admin"), domain.ErrNotFound)
}
