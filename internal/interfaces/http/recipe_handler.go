package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Boulangerie-api/internal/application/dto"
	"github.com/jhoicas/Boulangerie-api/internal/application/recipe"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
)

// RecipeHandler maneja recetas y producción (protegido).
type RecipeHandler struct {
	uc *recipe.RecipeUseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(uc *recipe.RecipeUseCase) *RecipeHandler {
	return &RecipeHandler{uc: uc}
}

// Define godoc
// @Summary      Definir receta de un producto terminado
// @Description  Crea el producto terminado si no existe y reemplaza su receta.
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DefineRecipeRequest  true  "finished_name, unit, lines"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/recipes [post]
func (h *RecipeHandler) Define(c *fiber.Ctx) error {
	var in dto.DefineRecipeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]recipe.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, recipe.LineInput{IngredientProductID: l.IngredientProductID, Quantity: l.Quantity})
	}
	rec, err := h.uc.DefineRecipe(c.Context(), in.FinishedName, in.Unit, lines)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ingrediente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"recipe_id": rec.ID, "finished_product_id": rec.FinishedProductID})
}

// Cost godoc
// @Summary      Costo de producir un lote
// @Description  Suma cantidad × costo promedio actual de cada ingrediente.
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del producto terminado"
// @Success      200   {object}  dto.RecipeCostResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/recipes/{name}/cost [get]
func (h *RecipeHandler) Cost(c *fiber.Ctx) error {
	name := c.Params("name")
	cost, err := h.uc.Cost(c.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.RecipeCostResponse{FinishedName: name, CostCents: cost})
}

// Availability godoc
// @Summary      Verificar disponibilidad de ingredientes
// @Description  Compara cada ingrediente contra el saldo del atelier para
// @Description  multiplier lotes; reporta todos los faltantes. Solo lectura.
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        name        path   string  true   "Nombre del producto terminado"
// @Param        multiplier  query  int     false  "Lotes"  default(1)
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{name}/availability [get]
func (h *RecipeHandler) Availability(c *fiber.Ctx) error {
	multiplier := int64(c.QueryInt("multiplier", 1))
	av, err := h.uc.CheckAvailability(c.Context(), c.Params("name"), multiplier)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "multiplier inválido"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.AvailabilityResponse{
		Disponible: av.Disponible,
		Shortfalls: toShortfallDTOs(av.Shortfalls),
	})
}

// Produce godoc
// @Summary      Producir lotes de un producto terminado
// @Description  Consume los ingredientes del atelier y acredita el producto
// @Description  terminado en el nivel destino, todo o nada. Si falta un solo
// @Description  ingrediente no se consume ninguno.
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string  true  "Nombre del producto terminado"
// @Param        body  body  dto.ProduceRequest  true  "multiplier, dest_tier (vacío = boutique)"
// @Success      201   {object}  dto.ProduceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recipes/{name}/produce [post]
func (h *RecipeHandler) Produce(c *fiber.Ctx) error {
	name := c.Params("name")
	var in dto.ProduceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.Produce(c.Context(), name, in.Multiplier, in.DestTier, GetUserID(c))
	if err != nil {
		var ingErr *domain.IngredientsInsufficientError
		if errors.As(err, &ingErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"code":       "INGREDIENTS_INSUFFICIENT",
				"message":    "ingredientes insuficientes en atelier",
				"shortfalls": toShortfallDTOs(ingErr.Shortfalls),
			})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "receta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProduceResponse{
		FinishedName: res.Finished.Name,
		Quantity:     res.Quantity,
		DestTier:     in.DestTier,
		CostCents:    res.CostCents,
		BatchID:      res.BatchID,
	})
}

// SetSalePrice godoc
// @Summary      Fijar precio de venta de un producto terminado
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string  true  "Nombre del producto terminado"
// @Param        body  body  dto.SetSalePriceRequest  true  "price_cents"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/recipes/{name}/price [put]
func (h *RecipeHandler) SetSalePrice(c *fiber.Ctx) error {
	var in dto.SetSalePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.SetSalePrice(c.Context(), c.Params("name"), in.PriceCents, GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "precio inválido"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto terminado no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "precio actualizado"})
}
