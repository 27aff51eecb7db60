package repository

import (
	"time"

	"github.com/jhoicas/Boulangerie-api/internal/domain/entity"
)

// DemandeRepository define el puerto de persistencia para solicitudes de traslado.
type DemandeRepository interface {
	Create(demande *entity.Demande) error
	GetByID(id string) (*entity.Demande, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) para que dos
	// validaciones concurrentes de la misma demande no pasen ambas el chequeo
	// de estado pending.
	GetByIDForUpdate(id string) (*entity.Demande, error)
	// SetStatus registra la transición terminal (una sola vez).
	SetStatus(id, status, validator string, processedAt time.Time) error
	ListByStatus(status string, limit, offset int) ([]*entity.Demande, error)
}
