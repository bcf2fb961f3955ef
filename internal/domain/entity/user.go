package entity

import "time"

// User es un usuario del sistema. La emisión/verificación de tokens la hace un
// colaborador externo; aquí solo se persiste para el seed y la administración.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	BranchID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
