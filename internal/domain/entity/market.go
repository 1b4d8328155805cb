package entity

import "time"

// Tipos de mercado válidos (valores persistidos).
const (
	MarketHipermercado = "hipermercado"
	MarketSupermercado = "supermercado"
	MarketAtacadista   = "atacadista"
)

// ValidMarketType indica si el tipo es uno de los conocidos.
func ValidMarketType(t string) bool {
	switch t {
	case MarketHipermercado, MarketSupermercado, MarketAtacadista:
		return true
	}
	return false
}

// Market representa un punto de venta donde se observan precios.
type Market struct {
	ID           string
	Name         string
	City         string
	State        string
	Neighborhood string
	Type         string // hipermercado, supermercado, atacadista
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
