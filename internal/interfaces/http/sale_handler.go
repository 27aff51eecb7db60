package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Boulangerie-api/internal/application/dto"
	"github.com/jhoicas/Boulangerie-api/internal/application/sale"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
)

// SaleHandler maneja el punto de venta y las anulaciones (protegido).
type SaleHandler struct {
	createUC *sale.CreateSaleUseCase
	cancelUC *sale.CancelSaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(createUC *sale.CreateSaleUseCase, cancelUC *sale.CancelSaleUseCase) *SaleHandler {
	return &SaleHandler{createUC: createUC, cancelUC: cancelUC}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Verifica todas las líneas contra el saldo boutique y el monto
// @Description  entregado; cualquier faltante aborta la venta completa sin
// @Description  efecto. El ticket sale de la secuencia monotónica del día.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "items, amount_given_cents"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      402   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]sale.LineInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, sale.LineInput{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	res, err := h.createUC.Create(c.Context(), sale.CreateInput{
		Items:            items,
		AmountGivenCents: in.AmountGivenCents,
		Seller:           GetUserID(c),
	})
	if err != nil {
		var insErr *domain.InsufficientStockError
		if errors.As(err, &insErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"code":       "INSUFFICIENT_STOCK",
				"message":    "stock insuficiente en boutique",
				"shortfalls": toShortfallDTOs(insErr.Items),
			})
		}
		if errors.Is(err, domain.ErrInsufficientPayment) {
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_PAYMENT", Message: "el monto entregado no cubre el total"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(res.Sale))
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.createUC.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toSaleResponse(s))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.createUC.List(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSaleResponse(s))
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular una venta
// @Description  Restaura el stock best-effort y registra la auditoría. La
// @Description  anulación se confirma aunque alguna restauración falle; los
// @Description  fallos vuelven como warnings.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.CancelSaleRequest  true  "reason (mínimo 10 caracteres)"
// @Success      200   {object}  dto.CancelSaleResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.cancelUC.Cancel(c.Context(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return h.cancelError(c, err)
	}
	return c.JSON(toCancelResponse(res))
}

// RetryRestorations godoc
// @Summary      Reintentar restauraciones pendientes de una venta anulada
// @Description  Consulta el registro de movimientos para restaurar solo lo
// @Description  que quedó pendiente; nunca restaura dos veces una línea.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.CancelSaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/restorations/retry [post]
func (h *SaleHandler) RetryRestorations(c *fiber.Ctx) error {
	res, err := h.cancelUC.RetryRestorations(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return h.cancelError(c, err)
	}
	return c.JSON(toCancelResponse(res))
}

func (h *SaleHandler) cancelError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "sin permiso para anular ventas"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: "la venta ya fue anulada"})
	case errors.Is(err, domain.ErrWindowExpired):
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "WINDOW_EXPIRED", Message: "la ventana de anulación expiró"})
	case errors.Is(err, domain.ErrInvalidReason):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REASON", Message: "el motivo debe tener al menos 10 caracteres"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "operación inválida para el estado de la venta"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toCancelResponse(res *sale.CancelResult) dto.CancelSaleResponse {
	restored := make([]dto.RestoredItemDTO, 0, len(res.RestoredItems))
	for _, it := range res.RestoredItems {
		restored = append(restored, dto.RestoredItemDTO{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return dto.CancelSaleResponse{
		SaleID:        res.SaleID,
		RestoredItems: restored,
		Warnings:      res.Warnings,
	}
}
