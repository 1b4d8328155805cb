package repository

import "github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"

// PriceRecordRepository define el puerto de persistencia para observaciones
// de precio. Solo insert y lecturas: los registros son append-only.
type PriceRecordRepository interface {
	Create(record *entity.PriceRecord) error
	ListAll() ([]*entity.PriceRecord, error)
	ListByCompany(companyID string) ([]*entity.PriceRecord, error)
	ListByUser(userID string, limit int) ([]*entity.PriceRecord, error)
}
