package entity

// Niveles de almacenamiento fijos de la operación.
const (
	TierPrincipal = "principal" // almacén general
	TierAtelier   = "atelier"   // buffer del taller de producción
	TierBoutique  = "boutique"  // estantería de venta
)

// Tiers devuelve los niveles válidos en orden lógico (almacén → taller → venta).
func Tiers() []string {
	return []string{TierPrincipal, TierAtelier, TierBoutique}
}

// IsValidTier verifica que el nombre corresponda a un nivel conocido.
func IsValidTier(tier string) bool {
	switch tier {
	case TierPrincipal, TierAtelier, TierBoutique:
		return true
	}
	return false
}
