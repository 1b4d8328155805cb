package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen de una observación de precio, derivado del rol de quien la creó.
const (
	OriginAuditor     = "auditor"
	OriginAlimentador = "alimentador"
)

// PriceRecord es una observación de precio: inmutable una vez creada
// (append-only); solo queda superada por un registro más reciente del mismo
// par producto-mercado. MarketID puede ser vacío cuando el alimentador
// reportó el mercado por nombre libre (MarketName).
type PriceRecord struct {
	ID          string
	ProductID   string
	MarketID    string // opcional
	MarketName  string // nombre libre cuando no hay MarketID
	Price       decimal.Decimal
	CollectedAt time.Time
	UserID      string
	CompanyID   string
	Origin      string // auditor, alimentador
	Notes       string
	CreatedAt   time.Time
}
