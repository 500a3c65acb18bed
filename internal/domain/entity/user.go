package entity

import "time"

// User es un usuario de la tienda (dueño u operador del mostrador).
type User struct {
	ID           string
	ShopID       string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // "active" | "disabled"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
