package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name  string `json:"name"`
	CNPJ  string `json:"cnpj"`
	Email string `json:"email"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyListResponse listado de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	Barcode    string `json:"barcode"`
	CategoryID string `json:"category_id"`
}

// UpdateProductRequest cambios parciales sobre un producto.
type UpdateProductRequest struct {
	Name       *string `json:"name"`
	Brand      *string `json:"brand"`
	CategoryID *string `json:"category_id"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand"`
	Barcode    string    `json:"barcode"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductListResponse listado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateMarketRequest entrada para crear un mercado.
type CreateMarketRequest struct {
	Name         string `json:"name"`
	City         string `json:"city"`
	State        string `json:"state"`
	Neighborhood string `json:"neighborhood"`
	Type         string `json:"type"` // hipermercado, supermercado, atacadista
}

// UpdateMarketRequest cambios parciales sobre un mercado.
type UpdateMarketRequest struct {
	Name         *string `json:"name"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Neighborhood *string `json:"neighborhood"`
	Type         *string `json:"type"`
}

// MarketResponse salida de un mercado.
type MarketResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Neighborhood string    `json:"neighborhood"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MarketListResponse listado de mercados.
type MarketListResponse struct {
	Items []MarketResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
