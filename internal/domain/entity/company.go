package entity

import "time"

// Company representa la organización dueña de los datos (multi-tenant).
type Company struct {
	ID        string
	Name      string
	CNPJ      string // identificador fiscal brasileño
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
