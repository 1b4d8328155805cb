package entity

import "time"

// Product representa un producto observable en mercados. Barcode (EAN) es el
// identificador externo único; los alimentadores pueden crear productos por
// entrada manual cuando el código de barras no existe todavía.
type Product struct {
	ID         string
	CompanyID  string
	Name       string
	Brand      string
	Barcode    string // EAN, único
	CategoryID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
