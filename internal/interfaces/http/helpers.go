package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Boulangerie-api/internal/application/dto"
	"github.com/jhoicas/Boulangerie-api/internal/domain"
	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

// pageParams lee limit/offset del query string con los topes de la API.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// toShortfallDTOs convierte los faltantes del dominio a su forma HTTP.
func toShortfallDTOs(items []domain.StockShortfall) []dto.ShortfallDTO {
	out := make([]dto.ShortfallDTO, 0, len(items))
	for _, s := range items {
		out = append(out, dto.ShortfallDTO{
			ProductID: s.ProductID,
			Name:      s.Name,
			Requested: s.Requested,
			Available: s.Available,
			Missing:   s.Missing(),
		})
	}
	return out
}

func toStockTierResponse(s *entity.StockTier) dto.StockTierResponse {
	return dto.StockTierResponse{
		ProductID: s.ProductID,
		Tier:      s.Tier,
		Available: s.Available,
		Consumed:  s.Consumed,
		UpdatedAt: s.UpdatedAt,
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Tier:      m.Tier,
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		UnitCost:  m.UnitCost,
		Reference: m.Reference,
		Actor:     m.Actor,
		CreatedAt: m.CreatedAt,
	}
}

func toDemandeResponse(d *entity.Demande) dto.DemandeResponse {
	return dto.DemandeResponse{
		ID:          d.ID,
		ProductID:   d.ProductID,
		Quantity:    d.Quantity,
		SourceTier:  d.SourceTier,
		DestTier:    d.DestTier,
		Status:      d.Status,
		Requester:   d.Requester,
		Validator:   d.Validator,
		CreatedAt:   d.CreatedAt,
		ProcessedAt: d.ProcessedAt,
	}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			SubtotalCents:  it.SubtotalCents,
		})
	}
	return dto.SaleResponse{
		ID:               s.ID,
		TicketNumber:     s.TicketNumber,
		Items:            items,
		TotalCents:       s.TotalCents,
		AmountGivenCents: s.AmountGivenCents,
		ChangeCents:      s.ChangeCents,
		Status:           s.Status,
		Seller:           s.Seller,
		CreatedAt:        s.CreatedAt,
		CancelledAt:      s.CancelledAt,
	}
}
