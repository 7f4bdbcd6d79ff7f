package users

import "time"

// Role del usuario dentro de la granja.
type Role string

const (
	RoleOwner   Role = "Owner"
	RoleManager Role = "Manager"
	RoleWorker  Role = "Worker"
)

// User es la cuenta local. Un usuario == una granja (tenant boundary):
// todo lo que posee (animales, entries) referencia su ID como farm_id.
// Nunca se borra en el scope actual.
type User struct {
	ID string

	// SubjectID es el uid estable del identity provider (firebase_uid).
	SubjectID string

	PhoneNumber string
	Role        Role
	PlanID      *string

	CreatedAt time.Time
}
