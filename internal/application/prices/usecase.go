// Package prices contiene los casos de uso de observaciones de precio:
// registro por alimentadores y auditores, historial propio y la consulta
// pública con último precio por par producto-mercado.
package prices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/dto"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/pricing"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
)

// TxRunner ejecuta alta de producto (entrada manual) y alta de precio en una
// misma transacción.
type TxRunner interface {
	RunPriceSubmission(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		priceRepo repository.PriceRecordRepository,
	) error) error
}

// Publisher notifica inserciones de precios a los suscriptores en vivo.
type Publisher interface {
	PublishPrice(companyID string, record *entity.PriceRecord)
}

// PriceUseCase casos de uso de precios.
type PriceUseCase struct {
	records  repository.PriceRecordRepository
	products repository.ProductRepository
	markets  repository.MarketRepository
	users    repository.UserRepository
	tx       TxRunner
	bus      Publisher
	now      func() time.Time
}

// NewPriceUseCase construye el caso de uso.
func NewPriceUseCase(records repository.PriceRecordRepository, products repository.ProductRepository, markets repository.MarketRepository, users repository.UserRepository, tx TxRunner, bus Publisher) *PriceUseCase {
	return &PriceUseCase{
		records:  records,
		products: products,
		markets:  markets,
		users:    users,
		tx:       tx,
		bus:      bus,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *PriceUseCase) WithClock(now func() time.Time) *PriceUseCase {
	uc.now = now
	return uc
}

// Submit registra una observación de precio del usuario autenticado.
//
// Validación síncrona antes de cualquier escritura: precio positivo y mercado
// (de catálogo o nombre libre) obligatorios. El origen se deriva del rol del
// usuario: auditor etiqueta auditor, cualquier otro rol colector etiqueta
// alimentador. Con código de barras desconocido y datos manuales presentes se
// crea el producto y el precio en una sola transacción; sin datos manuales se
// devuelve ErrNotFound para que el cliente pida entrada manual.
func (uc *PriceUseCase) Submit(userID string, in dto.SubmitPriceRequest) (*dto.PriceRecordResponse, error) {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Price == nil || !in.Price.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	marketID := ""
	if in.MarketID != "" {
		market, err := uc.markets.GetByID(in.MarketID)
		if err != nil {
			return nil, err
		}
		if market == nil {
			return nil, domain.ErrNotFound
		}
		marketID = market.ID
	} else if in.MarketName == "" {
		return nil, domain.ErrInvalidInput
	}

	var product *entity.Product
	var newProduct *entity.Product
	now := uc.now()
	switch {
	case in.Barcode != "":
		product, err = uc.products.GetByBarcode(in.Barcode)
		if err != nil {
			return nil, err
		}
		if product == nil {
			if in.ProductName == "" {
				return nil, domain.ErrNotFound // pedir entrada manual
			}
			newProduct = &entity.Product{
				ID:        uuid.New().String(),
				CompanyID: user.CompanyID,
				Name:      in.ProductName,
				Brand:     in.ProductBrand,
				Barcode:   in.Barcode,
				CreatedAt: now,
				UpdatedAt: now,
			}
			product = newProduct
		}
	case in.ProductID != "":
		product, err = uc.products.GetByID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	origin := entity.OriginAlimentador
	if user.Role == entity.RoleAuditor {
		origin = entity.OriginAuditor
	}
	record := &entity.PriceRecord{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		MarketID:    marketID,
		MarketName:  in.MarketName,
		Price:       *in.Price,
		CollectedAt: now,
		UserID:      user.ID,
		CompanyID:   user.CompanyID,
		Origin:      origin,
		Notes:       in.Notes,
		CreatedAt:   now,
	}
	err = uc.tx.RunPriceSubmission(context.Background(), func(
		productRepo repository.ProductRepository,
		priceRepo repository.PriceRecordRepository,
	) error {
		if newProduct != nil {
			if err := productRepo.Create(newProduct); err != nil {
				return err
			}
		}
		return priceRepo.Create(record)
	})
	if err != nil {
		return nil, err
	}
	if uc.bus != nil {
		uc.bus.PublishPrice(user.CompanyID, record)
	}
	return toPriceResponse(record), nil
}

// History devuelve las últimas observaciones del usuario (más recientes primero).
func (uc *PriceUseCase) History(userID string, limit int) ([]dto.PriceRecordResponse, error) {
	if limit <= 0 {
		limit = 5
	}
	list, err := uc.records.ListByUser(userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PriceRecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toPriceResponse(r))
	}
	return out, nil
}

// PublicQuery responde la consulta pública: reduce a último precio por par
// producto-mercado y aplica los filtros de búsqueda, ciudad y barrio sobre el
// snapshot en memoria. Se recalcula en cada consulta; la colección subyacente
// cambia con cada inserción.
func (uc *PriceUseCase) PublicQuery(q dto.PublicPriceQuery) (*dto.PublicPriceListResponse, error) {
	records, err := uc.records.ListAll()
	if err != nil {
		return nil, err
	}
	productIdx, err := uc.productIndex()
	if err != nil {
		return nil, err
	}
	marketIdx, err := uc.marketIndex()
	if err != nil {
		return nil, err
	}

	latest := pricing.LatestPerPair(records)
	filter := pricing.Filter{Search: q.Search, City: q.City, Neighborhood: q.Neighborhood}
	filtered := filter.Apply(latest, productIdx, marketIdx)

	items := make([]dto.PublicPriceRow, 0, len(filtered))
	for _, r := range filtered {
		row := dto.PublicPriceRow{
			ProductID:   r.ProductID,
			MarketID:    r.MarketID,
			MarketName:  r.MarketName,
			Price:       r.Price,
			CollectedAt: r.CollectedAt,
			Origin:      r.Origin,
		}
		if p := productIdx[r.ProductID]; p != nil {
			row.ProductName = p.Name
			row.ProductBrand = p.Brand
		}
		if m := marketIdx[r.MarketID]; m != nil {
			row.MarketName = m.Name
			row.City = m.City
			row.Neighborhood = m.Neighborhood
		}
		items = append(items, row)
	}
	return &dto.PublicPriceListResponse{Items: items, Total: len(items)}, nil
}

// Cities ciudades disponibles para el filtro.
func (uc *PriceUseCase) Cities() ([]string, error) {
	markets, err := uc.markets.ListAll()
	if err != nil {
		return nil, err
	}
	return pricing.Cities(markets), nil
}

// Neighborhoods barrios de una ciudad. Sin ciudad el conjunto es vacío.
func (uc *PriceUseCase) Neighborhoods(city string) ([]string, error) {
	markets, err := uc.markets.ListAll()
	if err != nil {
		return nil, err
	}
	return pricing.NeighborhoodsIn(markets, city), nil
}

func (uc *PriceUseCase) productIndex() (map[string]*entity.Product, error) {
	list, err := uc.products.ListAll()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		idx[p.ID] = p
	}
	return idx, nil
}

func (uc *PriceUseCase) marketIndex() (map[string]*entity.Market, error) {
	list, err := uc.markets.ListAll()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]*entity.Market, len(list))
	for _, m := range list {
		idx[m.ID] = m
	}
	return idx, nil
}

func toPriceResponse(r *entity.PriceRecord) *dto.PriceRecordResponse {
	return &dto.PriceRecordResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		MarketID:    r.MarketID,
		MarketName:  r.MarketName,
		Price:       r.Price,
		CollectedAt: r.CollectedAt,
		UserID:      r.UserID,
		Origin:      r.Origin,
		Notes:       r.Notes,
	}
}
