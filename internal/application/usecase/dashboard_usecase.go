package usecase

import (
	"sort"
	"time"

	"github.com/jhoicas/PrecoMonitor-api/internal/application/dto"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/pricing"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/task"
)

// DashboardUseCase arma el resumen del panel de administración a partir de
// las tareas y los precios de la empresa. Los conteos de tareas usan el
// estado efectivo, así que una pendente con deadline vencido cuenta como
// expirada sin tocar la fila.
type DashboardUseCase struct {
	tasks    repository.DelegatedTaskRepository
	records  repository.PriceRecordRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(tasks repository.DelegatedTaskRepository, records repository.PriceRecordRepository, products repository.ProductRepository) *DashboardUseCase {
	return &DashboardUseCase{tasks: tasks, records: records, products: products, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// Summary calcula las métricas del panel para una empresa.
func (uc *DashboardUseCase) Summary(companyID string) (*dto.DashboardSummary, error) {
	taskList, err := uc.tasks.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	records, err := uc.records.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	productList, err := uc.products.ListAll()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(productList))
	for _, p := range productList {
		names[p.ID] = p.Name
	}

	p := task.PartitionByStatus(taskList, uc.now())
	origins := pricing.CountByOrigin(records)

	averages := pricing.AverageByProduct(records)
	avgItems := make([]dto.ProductAverage, 0, len(averages))
	for id, avg := range averages {
		avgItems = append(avgItems, dto.ProductAverage{
			ProductID:   id,
			ProductName: names[id],
			Average:     avg,
		})
	}
	sort.Slice(avgItems, func(i, j int) bool { return avgItems[i].ProductName < avgItems[j].ProductName })

	top := pricing.TopByCount(records, 5)
	topItems := make([]dto.ProductCountDTO, 0, len(top))
	for _, t := range top {
		topItems = append(topItems, dto.ProductCountDTO{
			ProductID:   t.ProductID,
			ProductName: names[t.ProductID],
			Count:       t.Count,
		})
	}

	return &dto.DashboardSummary{
		TotalTasks:        len(taskList),
		PendingTasks:      len(p.Pendentes),
		CompletedTasks:    len(p.Realizadas),
		ExpiredTasks:      len(p.Expiradas),
		TotalPrices:       len(records),
		AuditorPrices:     origins.Auditor,
		ContributorPrices: origins.Alimentador,
		AveragesByProduct: avgItems,
		TopProducts:       topItems,
	}, nil
}
