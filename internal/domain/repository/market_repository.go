package repository

import "github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"

// MarketRepository define el puerto de persistencia para Market.
type MarketRepository interface {
	Create(market *entity.Market) error
	GetByID(id string) (*entity.Market, error)
	Update(market *entity.Market) error
	List(limit, offset int) ([]*entity.Market, error)
	ListAll() ([]*entity.Market, error)
	Delete(id string) error
}
