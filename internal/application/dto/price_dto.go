package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitPriceRequest entrada para registrar una observación de precio.
//
// Resolución de producto: con Barcode se busca el producto existente; si no
// existe y vienen ProductName/ProductBrand se crea (entrada manual). Con
// ProductID se usa directo. Mercado: MarketID de catálogo o MarketName libre.
type SubmitPriceRequest struct {
	ProductID    string           `json:"product_id"`
	Barcode      string           `json:"barcode"`
	ProductName  string           `json:"product_name"`
	ProductBrand string           `json:"product_brand"`
	MarketID     string           `json:"market_id"`
	MarketName   string           `json:"market_name"`
	Price        *decimal.Decimal `json:"price"`
	Notes        string           `json:"notes"`
}

// PriceRecordResponse salida de una observación de precio.
type PriceRecordResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	MarketID    string          `json:"market_id,omitempty"`
	MarketName  string          `json:"market_name,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CollectedAt time.Time       `json:"collected_at"`
	UserID      string          `json:"user_id"`
	Origin      string          `json:"origin"`
	Notes       string          `json:"notes,omitempty"`
}

// PublicPriceQuery filtros de la consulta pública.
type PublicPriceQuery struct {
	Search       string `query:"search"`
	City         string `query:"city"`
	Neighborhood string `query:"neighborhood"`
}

// PublicPriceRow fila de la consulta pública: último precio del par con
// producto y mercado resueltos para presentación.
type PublicPriceRow struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductBrand string          `json:"product_brand"`
	MarketID     string          `json:"market_id,omitempty"`
	MarketName   string          `json:"market_name"`
	City         string          `json:"city,omitempty"`
	Neighborhood string          `json:"neighborhood,omitempty"`
	Price        decimal.Decimal `json:"price"`
	CollectedAt  time.Time       `json:"collected_at"`
	Origin       string          `json:"origin"`
}

// PublicPriceListResponse resultado de la consulta pública.
type PublicPriceListResponse struct {
	Items []PublicPriceRow `json:"items"`
	Total int              `json:"total"`
}
