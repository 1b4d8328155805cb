package dto

import "github.com/shopspring/decimal"

// ProductAverage promedio de precio de un producto (2 decimales).
type ProductAverage struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Average     decimal.Decimal `json:"average"`
}

// ProductCountDTO cantidad de observaciones por producto.
type ProductCountDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Count       int    `json:"count"`
}

// DashboardSummary métricas del panel de administración. Los conteos de
// tareas usan el estado efectivo (vencimiento calculado en lectura).
type DashboardSummary struct {
	TotalTasks        int               `json:"total_tasks"`
	PendingTasks      int               `json:"pending_tasks"`
	CompletedTasks    int               `json:"completed_tasks"`
	ExpiredTasks      int               `json:"expired_tasks"`
	TotalPrices       int               `json:"total_prices"`
	AuditorPrices     int               `json:"auditor_prices"`
	ContributorPrices int               `json:"contributor_prices"`
	AveragesByProduct []ProductAverage  `json:"averages_by_product"`
	TopProducts       []ProductCountDTO `json:"top_products"`
}
