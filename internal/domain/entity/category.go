package entity

import "time"

// Category agrupa productos dentro de una empresa.
type Category struct {
	ID        string
	CompanyID string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
