package pricing

import (
	"strings"

	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
)

// Filter criterios de la consulta pública de precios. Los predicados se
// componen por conjunción, así que aplicar los filtros uno a uno o todos en
// una pasada produce el mismo conjunto.
type Filter struct {
	Search       string // substring, case-insensitive, sobre nombre o marca del producto
	City         string // igualdad exacta sobre la ciudad del mercado
	Neighborhood string // igualdad exacta; solo tiene sentido con City elegida
}

// Matches evalúa el filtro sobre un registro con su producto y mercado
// resueltos. Sin producto resuelto el registro no se muestra. Un registro de
// mercado por nombre libre (market nil) solo pasa cuando no hay filtros
// geográficos activos.
func (f Filter) Matches(r *entity.PriceRecord, product *entity.Product, market *entity.Market) bool {
	if product == nil {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(product.Name), term) &&
			!strings.Contains(strings.ToLower(product.Brand), term) {
			return false
		}
	}
	if market == nil {
		return f.City == "" && f.Neighborhood == ""
	}
	if f.City != "" && market.City != f.City {
		return false
	}
	if f.Neighborhood != "" && market.Neighborhood != f.Neighborhood {
		return false
	}
	return true
}

// Apply filtra registros usando índices de producto y mercado por ID.
func (f Filter) Apply(records []*entity.PriceRecord, products map[string]*entity.Product, markets map[string]*entity.Market) []*entity.PriceRecord {
	var out []*entity.PriceRecord
	for _, r := range records {
		if f.Matches(r, products[r.ProductID], markets[r.MarketID]) {
			out = append(out, r)
		}
	}
	return out
}
