package entity

import "github.com/google/uuid"

// Role names carried in JWT claims by the external auth system
const (
	RolePatient = "patient"
	RoleClinic  = "clinic"
)

// Principal is the authenticated caller of a core operation. Every
// usecase takes it explicitly; nothing reads identity from ambient state.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

// IsPatient checks if the principal acts as a patient
func (p Principal) IsPatient() bool {
	return p.Role == RolePatient
}

// IsClinic checks if the principal acts as a clinic
func (p Principal) IsClinic() bool {
	return p.Role == RoleClinic
}
