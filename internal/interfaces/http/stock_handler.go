package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Boulangerie-api/internal/application/dto"
	"github.com/jhoicas/Boulangerie-api/internal/application/ledger"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
)

// StockHandler maneja reaprovisionamiento, consulta de saldos e historial
// de movimientos (protegido).
type StockHandler struct {
	uc *ledger.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Replenish godoc
// @Summary      Registrar entrada de mercancía
// @Description  Suma la cantidad al nivel indicado y recalcula el costo
// @Description  promedio ponderado del producto sobre el stock total.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReplenishRequest  true  "product_id, tier, quantity, unit_cost_cents"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/replenish [post]
func (h *StockHandler) Replenish(c *fiber.Ctx) error {
	var in dto.ReplenishRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.Replenish(c.Context(), ledger.ReplenishInput{
		ProductID:     in.ProductID,
		Tier:          in.Tier,
		Quantity:      in.Quantity,
		UnitCostCents: in.UnitCostCents,
		Reference:     in.Reference,
		Actor:         GetUserID(c),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "entrada registrada"})
}

// Get godoc
// @Summary      Saldo de un producto en un nivel
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   string  true  "ID del producto"
// @Param        tier        path   string  true  "principal | atelier | boutique"
// @Success      200  {object}  dto.StockTierResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id}/{tier} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	tier := c.Params("tier")
	st, err := h.uc.Get(c.Context(), productID, tier)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nivel desconocido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toStockTierResponse(st))
}

// ListByProduct godoc
// @Summary      Saldos de un producto en todos los niveles
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {array}  dto.StockTierResponse
// @Router       /api/stock/{product_id} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	tiers, err := h.uc.ListByProduct(c.Context(), c.Params("product_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockTierResponse, 0, len(tiers))
	for _, st := range tiers {
		out = append(out, toStockTierResponse(st))
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   string  true   "ID del producto"
// @Param        from        query  string  false  "Fecha inicial (RFC3339)"
// @Param        to          query  string  false  "Fecha final (RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/stock/{product_id}/movements [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		to = &t
	}
	movs, err := h.uc.History(c.Context(), c.Params("product_id"), from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}
