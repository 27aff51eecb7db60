package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDemandeRequest solicitud de traslado entre niveles.
// source_tier vacío = principal (el flujo más común: almacén → taller).
type CreateDemandeRequest struct {
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	SourceTier string          `json:"source_tier"`
	DestTier   string          `json:"dest_tier"`
}

// DemandeResponse representación HTTP de una demande.
type DemandeResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	SourceTier  string          `json:"source_tier"`
	DestTier    string          `json:"dest_tier"`
	Status      string          `json:"status"`
	Requester   string          `json:"requester"`
	Validator   string          `json:"validator,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
}
