package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una Demande. pending es el único estado no terminal; la
// transición a un estado terminal ocurre exactamente una vez.
const (
	DemandeStatusPending   = "pending"
	DemandeStatusValidated = "validated"
	DemandeStatusRejected  = "rejected"
	DemandeStatusCancelled = "cancelled"
)

// Demande es una solicitud interna de traslado de cantidad entre niveles,
// que requiere validación de un responsable antes de mover stock.
type Demande struct {
	ID          string
	ProductID   string
	Quantity    decimal.Decimal // > 0
	SourceTier  string
	DestTier    string
	Status      string
	Requester   string // UserID que solicita
	Validator   string // UserID que valida o rechaza
	CreatedAt   time.Time
	ProcessedAt *time.Time // fecha de la transición terminal
}
