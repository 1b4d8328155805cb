// Package pricing contiene la agregación pura sobre observaciones de precio:
// último precio por par producto-mercado, filtros de consulta pública y
// métricas del dashboard. Todo opera sobre snapshots en memoria, sin efectos.
package pricing

import (
	"sort"
	"strings"

	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PairKey identifica un par producto-mercado. Para registros sin MarketID
// (mercado reportado por nombre libre) se usa el nombre normalizado.
type PairKey struct {
	ProductID string
	Market    string
}

// KeyFor devuelve la clave de par de un registro.
func KeyFor(r *entity.PriceRecord) PairKey {
	market := r.MarketID
	if market == "" {
		market = strings.ToLower(strings.TrimSpace(r.MarketName))
	}
	return PairKey{ProductID: r.ProductID, Market: market}
}

// LatestPerPair reduce la colección al registro más reciente de cada par
// producto-mercado. Empate de CollectedAt: gana el de mayor ID (regla
// determinista, independiente del orden de iteración). El resultado preserva
// el orden de primera aparición de cada par en la entrada.
func LatestPerPair(records []*entity.PriceRecord) []*entity.PriceRecord {
	index := make(map[PairKey]int, len(records))
	var out []*entity.PriceRecord
	for _, r := range records {
		key := KeyFor(r)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, r)
			continue
		}
		cur := out[i]
		if r.CollectedAt.After(cur.CollectedAt) ||
			(r.CollectedAt.Equal(cur.CollectedAt) && r.ID > cur.ID) {
			out[i] = r
		}
	}
	return out
}

// OriginCount conteo de registros por origen (auditor / alimentador).
type OriginCount struct {
	Auditor     int
	Alimentador int
}

// CountByOrigin cuenta observaciones por etiqueta de origen.
func CountByOrigin(records []*entity.PriceRecord) OriginCount {
	var c OriginCount
	for _, r := range records {
		switch r.Origin {
		case entity.OriginAuditor:
			c.Auditor++
		case entity.OriginAlimentador:
			c.Alimentador++
		}
	}
	return c
}

// AverageByProduct calcula el promedio aritmético de precio por producto,
// redondeado a 2 decimales.
func AverageByProduct(records []*entity.PriceRecord) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for _, r := range records {
		sums[r.ProductID] = sums[r.ProductID].Add(r.Price)
		counts[r.ProductID]++
	}
	out := make(map[string]decimal.Decimal, len(sums))
	for id, sum := range sums {
		out[id] = sum.Div(decimal.NewFromInt(counts[id])).Round(2)
	}
	return out
}

// ProductCount cantidad de observaciones de un producto.
type ProductCount struct {
	ProductID string
	Count     int
}

// TopByCount devuelve los n productos con más observaciones, descendente.
// Empates se resuelven de forma estable respecto al orden de primera
// aparición del producto en la entrada.
func TopByCount(records []*entity.PriceRecord, n int) []ProductCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, seen := counts[r.ProductID]; !seen {
			order = append(order, r.ProductID)
		}
		counts[r.ProductID]++
	}
	out := make([]ProductCount, 0, len(order))
	for _, id := range order {
		out = append(out, ProductCount{ProductID: id, Count: counts[id]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Cities devuelve las ciudades únicas de los mercados, ordenadas.
func Cities(markets []*entity.Market) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range markets {
		if m.City != "" && !seen[m.City] {
			seen[m.City] = true
			out = append(out, m.City)
		}
	}
	sort.Strings(out)
	return out
}

// NeighborhoodsIn devuelve los barrios únicos de los mercados de una ciudad.
// Sin ciudad seleccionada el conjunto de barrios es vacío, no "todos".
func NeighborhoodsIn(markets []*entity.Market, city string) []string {
	if city == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, m := range markets {
		if m.City == city && m.Neighborhood != "" && !seen[m.Neighborhood] {
			seen[m.Neighborhood] = true
			out = append(out, m.Neighborhood)
		}
	}
	sort.Strings(out)
	return out
}
