package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/dto"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
)

// MarketUseCase casos de uso CRUD para mercados.
type MarketUseCase struct {
	repo repository.MarketRepository
}

// NewMarketUseCase construye el caso de uso.
func NewMarketUseCase(repo repository.MarketRepository) *MarketUseCase {
	return &MarketUseCase{repo: repo}
}

// Create crea un mercado. El tipo debe ser uno de los conocidos.
func (uc *MarketUseCase) Create(in dto.CreateMarketRequest) (*dto.MarketResponse, error) {
	if in.Name == "" || in.City == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Type != "" && !entity.ValidMarketType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	market := &entity.Market{
		ID:           uuid.New().String(),
		Name:         in.Name,
		City:         in.City,
		State:        in.State,
		Neighborhood: in.Neighborhood,
		Type:         in.Type,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(market); err != nil {
		return nil, err
	}
	return toMarketResponse(market), nil
}

// GetByID obtiene un mercado por ID.
func (uc *MarketUseCase) GetByID(id string) (*dto.MarketResponse, error) {
	market, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if market == nil {
		return nil, nil
	}
	return toMarketResponse(market), nil
}

// Update actualiza un mercado.
func (uc *MarketUseCase) Update(id string, in dto.UpdateMarketRequest) (*dto.MarketResponse, error) {
	market, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if market == nil {
		return nil, nil
	}
	if in.Name != nil {
		market.Name = *in.Name
	}
	if in.City != nil {
		market.City = *in.City
	}
	if in.State != nil {
		market.State = *in.State
	}
	if in.Neighborhood != nil {
		market.Neighborhood = *in.Neighborhood
	}
	if in.Type != nil {
		if !entity.ValidMarketType(*in.Type) {
			return nil, domain.ErrInvalidInput
		}
		market.Type = *in.Type
	}
	market.UpdatedAt = time.Now()
	if err := uc.repo.Update(market); err != nil {
		return nil, err
	}
	return toMarketResponse(market), nil
}

// List lista mercados con paginación.
func (uc *MarketUseCase) List(page dto.PageRequest) (*dto.MarketListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MarketResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMarketResponse(m))
	}
	return &dto.MarketListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Delete elimina un mercado.
func (uc *MarketUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toMarketResponse(m *entity.Market) *dto.MarketResponse {
	return &dto.MarketResponse{
		ID:           m.ID,
		Name:         m.Name,
		City:         m.City,
		State:        m.State,
		Neighborhood: m.Neighborhood,
		Type:         m.Type,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
