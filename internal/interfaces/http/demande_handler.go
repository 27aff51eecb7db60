package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Boulangerie-api/internal/application/dto"
	"github.com/jhoicas/Boulangerie-api/internal/application/transfer"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
)

// DemandeHandler maneja el flujo de solicitudes de traslado (protegido).
type DemandeHandler struct {
	uc *transfer.DemandeUseCase
}

// NewDemandeHandler construye el handler.
func NewDemandeHandler(uc *transfer.DemandeUseCase) *DemandeHandler {
	return &DemandeHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de traslado
// @Description  Crea una demande en estado pending; no mueve stock hasta la validación.
// @Tags         demandes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDemandeRequest  true  "product_id, quantity, dest_tier; source_tier vacío = principal"
// @Success      201   {object}  dto.DemandeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/demandes [post]
func (h *DemandeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDemandeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	d, err := h.uc.Create(c.Context(), transfer.CreateInput{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		SourceTier: in.SourceTier,
		DestTier:   in.DestTier,
		Requester:  GetUserID(c),
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
	return c.Status(fiber.StatusCreated).JSON(toDemandeResponse(d))
}

// Validate godoc
// @Summary      Validar una demande pendiente
// @Description  Mueve la cantidad del nivel origen al destino y marca la
// @Description  demande como validated, todo en una transacción. Si el origen
// @Description  no alcanza, nada cambia y la demande sigue pending.
// @Tags         demandes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la demande"
// @Success      200  {object}  dto.DemandeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/demandes/{id}/validate [post]
func (h *DemandeHandler) Validate(c *fiber.Ctx) error {
	return h.transition(c, func(id, actor string) error {
		return h.uc.Validate(c.Context(), id, actor)
	})
}

// Reject godoc
// @Summary      Rechazar una demande pendiente
// @Tags         demandes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la demande"
// @Success      200  {object}  dto.DemandeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/demandes/{id}/reject [post]
func (h *DemandeHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, func(id, actor string) error {
		return h.uc.Reject(c.Context(), id, actor)
	})
}

// Cancel godoc
// @Summary      Cancelar una demande propia pendiente
// @Tags         demandes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la demande"
// @Success      200  {object}  dto.DemandeResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/demandes/{id}/cancel [post]
func (h *DemandeHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, func(id, actor string) error {
		return h.uc.Cancel(c.Context(), id, actor)
	})
}

func (h *DemandeHandler) transition(c *fiber.Ctx, fn func(id, actor string) error) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := fn(id, GetUserID(c)); err != nil {
		var insErr *domain.InsufficientStockError
		if errors.As(err, &insErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"code":       "INSUFFICIENT_STOCK",
				"message":    "stock insuficiente en el nivel origen",
				"shortfalls": toShortfallDTOs(insErr.Items),
			})
		}
		if errors.Is(err, domain.ErrAlreadyProcessed) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_PROCESSED", Message: "la demande ya fue procesada"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el solicitante puede cancelar"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "demande no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	d, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toDemandeResponse(d))
}

// GetByID godoc
// @Summary      Obtener demande por ID
// @Tags         demandes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la demande"
// @Success      200  {object}  dto.DemandeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/demandes/{id} [get]
func (h *DemandeHandler) GetByID(c *fiber.Ctx) error {
	d, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "demande no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toDemandeResponse(d))
}

// List godoc
// @Summary      Listar demandes
// @Tags         demandes
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | validated | rejected | cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.DemandeResponse
// @Router       /api/demandes [get]
func (h *DemandeHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado desconocido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.DemandeResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDemandeResponse(d))
	}
	return c.JSON(out)
}
