package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleMagasinier = "magasinier" // responsable de almacén y producción
	RoleVendeur    = "vendeur"    // vendedor de boutique
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, magasinier, vendeur
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
