package recipe

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
	"github.com/jhoicas/Boulangerie-api/internal/domain/inventory"
	"github.com/jhoicas/Boulangerie-api/internal/domain/repository"
)

// RecipeUseCase motor de recetas: costo, disponibilidad y producción.
// Una producción consume ingredientes del nivel atelier y acredita el
// producto terminado en el nivel destino, todo o nada.
type RecipeUseCase struct {
	txRunner    ledger.TxRunner
	recipeRepo  repository.RecipeRepository
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	stock       *ledger.StockLedger
}

// NewRecipeUseCase construye el caso de uso.
func NewRecipeUseCase(
	txRunner ledger.TxRunner,
	recipeRepo repository.RecipeRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	stock *ledger.StockLedger,
) *RecipeUseCase {
	return &RecipeUseCase{
		txRunner:    txRunner,
		recipeRepo:  recipeRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		stock:       stock,
	}
}

// LineInput línea de receta en la definición.
type LineInput struct {
	IngredientProductID string
	Quantity            decimal.Decimal
}

// DefineRecipe crea o reemplaza la receta de un producto terminado. Si el
// producto terminado no existe, se crea con Finished=true y sin precio.
func (uc *RecipeUseCase) DefineRecipe(ctx context.Context, finishedName, unit string, lines []LineInput) (*entity.Recipe, error) {
	if finishedName == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	entityLines := make([]entity.RecipeLine, 0, len(lines))
	for _, ln := range lines {
		if !ln.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		ing, err := uc.productRepo.GetByID(ln.IngredientProductID)
		if err != nil {
			return nil, err
		}
		if ing == nil {
			return nil, domain.ErrNotFound
		}
		entityLines = append(entityLines, entity.RecipeLine{
			IngredientProductID: ln.IngredientProductID,
			Quantity:            ln.Quantity,
		})
	}

	finished, err := uc.productRepo.GetByName(finishedName)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if finished == nil {
		if unit == "" {
			unit = "pièce"
		}
		finished = &entity.Product{
			ID:        uuid.New().String(),
			Name:      finishedName,
			Unit:      unit,
			Finished:  true,
			Cost:      decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.productRepo.Create(finished); err != nil {
			return nil, err
		}
	}

	rec := &entity.Recipe{
		ID:                uuid.New().String(),
		FinishedProductID: finished.ID,
		Lines:             entityLines,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.recipeRepo.Upsert(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Cost devuelve el costo de producir un lote, en centavos: suma de costo
// unitario promedio ponderado de cada ingrediente por su cantidad requerida.
func (uc *RecipeUseCase) Cost(ctx context.Context, finishedName string) (int64, error) {
	_, rec, err := uc.findRecipe(finishedName)
	if err != nil {
		return 0, err
	}
	cost, err := uc.batchCost(rec)
	if err != nil {
		return 0, err
	}
	return cost.Round(0).IntPart(), nil
}

// Availability resultado de una verificación de disponibilidad.
type Availability struct {
	Disponible bool
	Shortfalls []domain.StockShortfall
}

// CheckAvailability lectura pura: compara lo requerido por multiplier lotes
// contra el saldo en atelier y reporta los faltantes por ingrediente.
// Nunca muta stock.
func (uc *RecipeUseCase) CheckAvailability(ctx context.Context, finishedName string, multiplier int64) (*Availability, error) {
	if multiplier <= 0 {
		return nil, domain.ErrInvalidInput
	}
	_, rec, err := uc.findRecipe(finishedName)
	if err != nil {
		return nil, err
	}
	return uc.availability(rec, multiplier, uc.stockRepo, uc.productRepo)
}

// Produce verifica disponibilidad y, si alcanza, consume cada ingrediente del
// atelier y acredita multiplier unidades del terminado en destTier dentro de
// una sola transacción. Si falta cualquier ingrediente no se consume nada:
// aborta con IngredientsInsufficientError, también cuando el faltante lo
// provoca una carrera posterior a la verificación (la escritura condicional
// del store lo detecta y la transacción se revierte completa).
type ProduceResult struct {
	Finished  *entity.Product
	Quantity  decimal.Decimal
	CostCents int64
	BatchID   string
}

func (uc *RecipeUseCase) Produce(ctx context.Context, finishedName string, multiplier int64, destTier, actor string) (*ProduceResult, error) {
	if multiplier <= 0 || !entity.IsValidTier(destTier) {
		return nil, domain.ErrInvalidInput
	}
	finished, rec, err := uc.findRecipe(finishedName)
	if err != nil {
		return nil, err
	}

	avail, err := uc.availability(rec, multiplier, uc.stockRepo, uc.productRepo)
	if err != nil {
		return nil, err
	}
	if !avail.Disponible {
		return nil, &domain.IngredientsInsufficientError{Shortfalls: avail.Shortfalls}
	}

	batchID := uuid.New().String()
	qtyProduced := decimal.NewFromInt(multiplier)
	var totalCost decimal.Decimal

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		now := time.Now()
		mult := decimal.NewFromInt(multiplier)
		for _, ln := range rec.Lines {
			ing, err := productRepo.GetByID(ln.IngredientProductID)
			if err != nil {
				return err
			}
			if ing == nil {
				return domain.ErrNotFound
			}
			required := ln.Quantity.Mul(mult)
			if err := uc.stock.Adjust(movRepo, stockRepo, ing, entity.TierAtelier, required.Neg(),
				entity.MovementKindConsumption, batchID, actor, now); err != nil {
				return err
			}
			totalCost = totalCost.Add(ing.Cost.Mul(required))
		}

		// Costo unitario del lote producido; el costo del terminado se
		// promedia con el stock existente, igual que un reaprovisionamiento.
		batchUnitCost := totalCost.Div(qtyProduced)
		tiers, err := stockRepo.ListByProduct(finished.ID)
		if err != nil {
			return err
		}
		existing := decimal.Zero
		for _, st := range tiers {
			existing = existing.Add(st.Available)
		}
		newCost := inventory.WeightedAverageCost(existing, finished.Cost, qtyProduced, batchUnitCost)
		if err := productRepo.UpdateCost(finished.ID, newCost); err != nil {
			return err
		}

		produced := *finished
		produced.Cost = batchUnitCost
		return uc.stock.Adjust(movRepo, stockRepo, &produced, destTier, qtyProduced,
			entity.MovementKindEntry, batchID, actor, now)
	})
	if err != nil {
		// Una carrera perdió el stock entre la verificación y el commit:
		// reportarla como faltante de ingredientes, no como venta fallida.
		var insErr *domain.InsufficientStockError
		if errors.As(err, &insErr) {
			return nil, &domain.IngredientsInsufficientError{Shortfalls: insErr.Items}
		}
		return nil, err
	}

	return &ProduceResult{
		Finished:  finished,
		Quantity:  qtyProduced,
		CostCents: totalCost.Round(0).IntPart(),
		BatchID:   batchID,
	}, nil
}

// SetSalePrice fija el precio de venta del producto terminado. El precio es
// una propiedad del nombre, independiente de cualquier lote, reutilizable
// entre producciones.
func (uc *RecipeUseCase) SetSalePrice(ctx context.Context, finishedName string, priceCents int64, actor string) error {
	if priceCents <= 0 {
		return domain.ErrInvalidInput
	}
	finished, _, err := uc.findRecipe(finishedName)
	if err != nil {
		return err
	}
	return uc.productRepo.UpdatePrice(finished.ID, priceCents)
}

// findRecipe resuelve producto terminado + receta por nombre.
func (uc *RecipeUseCase) findRecipe(finishedName string) (*entity.Product, *entity.Recipe, error) {
	finished, err := uc.productRepo.GetByName(finishedName)
	if err != nil {
		return nil, nil, err
	}
	if finished == nil {
		return nil, nil, domain.ErrNotFound
	}
	rec, err := uc.recipeRepo.GetByFinishedProductID(finished.ID)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, domain.ErrNotFound
	}
	return finished, rec, nil
}

func (uc *RecipeUseCase) availability(
	rec *entity.Recipe,
	multiplier int64,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) (*Availability, error) {
	mult := decimal.NewFromInt(multiplier)
	result := &Availability{Disponible: true}
	for _, ln := range rec.Lines {
		required := ln.Quantity.Mul(mult)
		st, err := stockRepo.Get(ln.IngredientProductID, entity.TierAtelier)
		if err != nil {
			return nil, err
		}
		if st.Available.LessThan(required) {
			ing, err := productRepo.GetByID(ln.IngredientProductID)
			if err != nil {
				return nil, err
			}
			name := ln.IngredientProductID
			if ing != nil {
				name = ing.Name
			}
			result.Disponible = false
			result.Shortfalls = append(result.Shortfalls, domain.StockShortfall{
				ProductID: ln.IngredientProductID,
				Name:      name,
				Requested: required,
				Available: st.Available,
			})
		}
	}
	return result, nil
}

// batchCost costo decimal (centavos) de un lote a costos promedio vigentes.
func (uc *RecipeUseCase) batchCost(rec *entity.Recipe) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, ln := range rec.Lines {
		ing, err := uc.productRepo.GetByID(ln.IngredientProductID)
		if err != nil {
			return decimal.Zero, err
		}
		if ing == nil {
			return decimal.Zero, domain.ErrNotFound
		}
		total = total.Add(ing.Cost.Mul(ln.Quantity))
	}
	return total, nil
}
