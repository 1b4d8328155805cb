package prices

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PrecoMonitor-api/internal/application/dto"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
)

// ─────────────────────────────────────────────
// Fakes en memoria
// ─────────────────────────────────────────────

type memPriceRepo struct {
	items []*entity.PriceRecord
}

func (r *memPriceRepo) Create(rec *entity.PriceRecord) error {
	r.items = append(r.items, rec)
	return nil
}
func (r *memPriceRepo) ListAll() ([]*entity.PriceRecord, error) { return r.items, nil }
func (r *memPriceRepo) ListByCompany(companyID string) ([]*entity.PriceRecord, error) {
	var out []*entity.PriceRecord
	for _, rec := range r.items {
		if rec.CompanyID == companyID {
			out = append(out, rec)
		}
	}
	return out, nil
}
func (r *memPriceRepo) ListByUser(userID string, limit int) ([]*entity.PriceRecord, error) {
	var out []*entity.PriceRecord
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		if r.items[i].UserID == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

type memProductRepo struct {
	items map[string]*entity.Product
}

func (r *memProductRepo) Create(p *entity.Product) error { r.items[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.items[id], nil
}
func (r *memProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	for _, p := range r.items {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.items[p.ID] = p; return nil }
func (r *memProductRepo) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) ListAll() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}
func (r *memProductRepo) Delete(id string) error { delete(r.items, id); return nil }

type memMarketRepo struct {
	items map[string]*entity.Market
}

func (r *memMarketRepo) Create(m *entity.Market) error             { r.items[m.ID] = m; return nil }
func (r *memMarketRepo) GetByID(id string) (*entity.Market, error) { return r.items[id], nil }
func (r *memMarketRepo) Update(m *entity.Market) error             { r.items[m.ID] = m; return nil }
func (r *memMarketRepo) List(int, int) ([]*entity.Market, error)   { return r.ListAll() }
func (r *memMarketRepo) ListAll() ([]*entity.Market, error) {
	var out []*entity.Market
	for _, m := range r.items {
		out = append(out, m)
	}
	return out, nil
}
func (r *memMarketRepo) Delete(id string) error { delete(r.items, id); return nil }

type memUserRepo struct {
	items map[string]*entity.User
}

func (r *memUserRepo) Create(u *entity.User) error             { r.items[u.ID] = u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error) { return r.items[id], nil }
func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *memUserRepo) Update(u *entity.User) error { r.items[u.ID] = u; return nil }
func (r *memUserRepo) ListByCompany(string, int, int) ([]*entity.User, error) {
	return nil, nil
}
func (r *memUserRepo) Delete(id string) error { delete(r.items, id); return nil }

type memTx struct {
	products *memProductRepo
	prices   *memPriceRepo
}

func (tx *memTx) RunPriceSubmission(_ context.Context, fn func(repository.ProductRepository, repository.PriceRecordRepository) error) error {
	return fn(tx.products, tx.prices)
}

type memBus struct {
	published []*entity.PriceRecord
}

func (b *memBus) PublishPrice(_ string, rec *entity.PriceRecord) {
	b.published = append(b.published, rec)
}

type priceFixture struct {
	uc       *PriceUseCase
	records  *memPriceRepo
	products *memProductRepo
	markets  *memMarketRepo
	bus      *memBus
	now      time.Time
}

func newPriceFixture(t *testing.T) *priceFixture {
	t.Helper()
	records := &memPriceRepo{}
	products := &memProductRepo{items: map[string]*entity.Product{
		"prod-arroz": {ID: "prod-arroz", Name: "Arroz Tio João 5kg", Brand: "Tio João", Barcode: "7896006700012", CompanyID: "co-1"},
		"prod-cafe":  {ID: "prod-cafe", Name: "Café Pilão 500g", Brand: "Pilão", Barcode: "7896089012345", CompanyID: "co-1"},
	}}
	markets := &memMarketRepo{items: map[string]*entity.Market{
		"mkt-sp":  {ID: "mkt-sp", Name: "Extra Paulista", City: "São Paulo", Neighborhood: "Bela Vista"},
		"mkt-rj":  {ID: "mkt-rj", Name: "Guanabara Tijuca", City: "Rio de Janeiro", Neighborhood: "Tijuca"},
		"mkt-sp2": {ID: "mkt-sp2", Name: "Carrefour Pinheiros", City: "São Paulo", Neighborhood: "Pinheiros"},
	}}
	users := &memUserRepo{items: map[string]*entity.User{
		"aud-1": {ID: "aud-1", Role: entity.RoleAuditor, CompanyID: "co-1"},
		"ali-1": {ID: "ali-1", Role: entity.RoleAlimentador, CompanyID: "co-1"},
	}}
	tx := &memTx{products: products, prices: records}
	bus := &memBus{}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	uc := NewPriceUseCase(records, products, markets, users, tx, bus).
		WithClock(func() time.Time { return now })
	return &priceFixture{uc: uc, records: records, products: products, markets: markets, bus: bus, now: now}
}

func (f *priceFixture) seedRecord(id, productID, marketID, userID, origin string, price float64, at time.Time) {
	f.records.items = append(f.records.items, &entity.PriceRecord{
		ID:          id,
		ProductID:   productID,
		MarketID:    marketID,
		Price:       decimal.NewFromFloat(price),
		CollectedAt: at,
		UserID:      userID,
		CompanyID:   "co-1",
		Origin:      origin,
		CreatedAt:   at,
	})
}

// ─────────────────────────────────────────────
// Submit
// ─────────────────────────────────────────────

func TestSubmit_CodigoDeBarrasConocido(t *testing.T) {
	f := newPriceFixture(t)

	price := decimal.NewFromFloat(24.90)
	resp, err := f.uc.Submit("ali-1", dto.SubmitPriceRequest{
		Barcode:  "7896006700012",
		MarketID: "mkt-sp",
		Price:    &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "prod-arroz", resp.ProductID, "el código de barras resuelve al producto existente")
	assert.Equal(t, entity.OriginAlimentador, resp.Origin)
	assert.Equal(t, f.now, resp.CollectedAt)

	require.Len(t, f.bus.published, 1)
}

func TestSubmit_OrigenSegunRol(t *testing.T) {
	f := newPriceFixture(t)

	price := decimal.NewFromFloat(12)
	resp, err := f.uc.Submit("aud-1", dto.SubmitPriceRequest{
		ProductID: "prod-cafe",
		MarketID:  "mkt-rj",
		Price:     &price,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OriginAuditor, resp.Origin)
}

func TestSubmit_BarrasDesconocidoSinDatosManualesPideEntrada(t *testing.T) {
	f := newPriceFixture(t)

	price := decimal.NewFromFloat(9.99)
	_, err := f.uc.Submit("ali-1", dto.SubmitPriceRequest{
		Barcode:  "0000000000000",
		MarketID: "mkt-sp",
		Price:    &price,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.records.items)
}

func TestSubmit_EntradaManualCreaProductoYPrecioJuntos(t *testing.T) {
	f := newPriceFixture(t)

	price := decimal.NewFromFloat(6.49)
	resp, err := f.uc.Submit("ali-1", dto.SubmitPriceRequest{
		Barcode:     "7891234567890",
		ProductName: "Feijão Carioca 1kg",
		MarketID:    "mkt-sp",
		Price:       &price,
	})
	require.NoError(t, err)

	created, err := f.products.GetByBarcode("7891234567890")
	require.NoError(t, err)
	require.NotNil(t, created, "el producto nuevo queda persistido")
	assert.Equal(t, created.ID, resp.ProductID)
	require.Len(t, f.records.items, 1)
}

func TestSubmit_PrecioNoPositivoRechaza(t *testing.T) {
	f := newPriceFixture(t)

	zero := decimal.Zero
	_, err := f.uc.Submit("ali-1", dto.SubmitPriceRequest{
		ProductID: "prod-cafe",
		MarketID:  "mkt-sp",
		Price:     &zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Submit("ali-1", dto.SubmitPriceRequest{
		ProductID: "prod-cafe",
		MarketID:  "mkt-sp",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.records.items)
}

func TestSubmit_MercadoObligatorio(t *testing.T) {
	f := newPriceFixture(t)

	price := decimal.NewFromFloat(5)
	_, err := f.uc.Submit("ali-1", dto.SubmitPriceRequest{
		ProductID: "prod-cafe",
		Price:     &price,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─────────────────────────────────────────────
// Consulta pública
// ─────────────────────────────────────────────

func TestPublicQuery_UltimoPrecioPorPar(t *testing.T) {
	f := newPriceFixture(t)
	f.seedRecord("r1", "prod-arroz", "mkt-sp", "ali-1", entity.OriginAlimentador, 25.90, f.now.Add(-48*time.Hour))
	f.seedRecord("r2", "prod-arroz", "mkt-sp", "aud-1", entity.OriginAuditor, 24.90, f.now.Add(-time.Hour))
	f.seedRecord("r3", "prod-arroz", "mkt-rj", "ali-1", entity.OriginAlimentador, 26.50, f.now.Add(-24*time.Hour))

	resp, err := f.uc.PublicQuery(dto.PublicPriceQuery{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total, "un par producto-mercado aporta una sola fila")

	byMarket := make(map[string]dto.PublicPriceRow)
	for _, row := range resp.Items {
		byMarket[row.MarketID] = row
	}
	assert.True(t, byMarket["mkt-sp"].Price.Equal(decimal.NewFromFloat(24.90)),
		"gana la observación más reciente del par")
	assert.Equal(t, "Extra Paulista", byMarket["mkt-sp"].MarketName)
	assert.Equal(t, "Arroz Tio João 5kg", byMarket["mkt-sp"].ProductName)
}

func TestPublicQuery_FiltroDeBusqueda(t *testing.T) {
	f := newPriceFixture(t)
	f.seedRecord("r1", "prod-arroz", "mkt-sp", "ali-1", entity.OriginAlimentador, 25.90, f.now.Add(-time.Hour))
	f.seedRecord("r2", "prod-cafe", "mkt-sp", "ali-1", entity.OriginAlimentador, 18.90, f.now.Add(-time.Hour))

	resp, err := f.uc.PublicQuery(dto.PublicPriceQuery{Search: "pilão"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total, "la búsqueda matchea nombre o marca sin distinguir mayúsculas")
	assert.Equal(t, "prod-cafe", resp.Items[0].ProductID)
}

func TestPublicQuery_FiltroGeografico(t *testing.T) {
	f := newPriceFixture(t)
	f.seedRecord("r1", "prod-arroz", "mkt-sp", "ali-1", entity.OriginAlimentador, 25.90, f.now.Add(-time.Hour))
	f.seedRecord("r2", "prod-arroz", "mkt-rj", "ali-1", entity.OriginAlimentador, 26.50, f.now.Add(-time.Hour))
	f.seedRecord("r3", "prod-cafe", "mkt-sp2", "ali-1", entity.OriginAlimentador, 18.90, f.now.Add(-time.Hour))

	resp, err := f.uc.PublicQuery(dto.PublicPriceQuery{City: "São Paulo"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	resp, err = f.uc.PublicQuery(dto.PublicPriceQuery{City: "São Paulo", Neighborhood: "Pinheiros"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "prod-cafe", resp.Items[0].ProductID)
}

// ─────────────────────────────────────────────
// Catálogos de filtro
// ─────────────────────────────────────────────

func TestCities_OrdenadasSinDuplicados(t *testing.T) {
	f := newPriceFixture(t)

	cities, err := f.uc.Cities()
	require.NoError(t, err)
	assert.Equal(t, []string{"Rio de Janeiro", "São Paulo"}, cities)
}

func TestNeighborhoods_RequiereCiudad(t *testing.T) {
	f := newPriceFixture(t)

	hoods, err := f.uc.Neighborhoods("São Paulo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bela Vista", "Pinheiros"}, hoods)

	hoods, err = f.uc.Neighborhoods("")
	require.NoError(t, err)
	assert.Empty(t, hoods)
}

// ─────────────────────────────────────────────
// Historial
// ─────────────────────────────────────────────

func TestHistory_UltimasDelUsuario(t *testing.T) {
	f := newPriceFixture(t)
	for i := 0; i < 8; i++ {
		f.seedRecord(
			"r"+string(rune('a'+i)),
			"prod-arroz", "mkt-sp", "ali-1", entity.OriginAlimentador,
			float64(10+i), f.now.Add(time.Duration(i)*time.Minute),
		)
	}
	f.seedRecord("r-otro", "prod-cafe", "mkt-sp", "aud-1", entity.OriginAuditor, 99, f.now)

	hist, err := f.uc.History("ali-1", 5)
	require.NoError(t, err)
	require.Len(t, hist, 5)
	assert.True(t, hist[0].Price.Equal(decimal.NewFromFloat(17)), "más reciente primero")
	for _, h := range hist {
		assert.Equal(t, "ali-1", h.UserID)
	}
}
