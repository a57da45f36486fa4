package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePriceItemRequest entrada para crear un artículo de la lista de precios.
type CreatePriceItemRequest struct {
	Code     string          `json:"code" validate:"required,min=1,max=50"`
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Category string          `json:"category" validate:"max=100"`
	Brand    string          `json:"brand" validate:"max=100"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock" validate:"min=0,max=1000000000"`
}

// UpdatePriceItemRequest edición directa; el código no se modifica.
type UpdatePriceItemRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category *string          `json:"category" validate:"omitempty,max=100"`
	Brand    *string          `json:"brand" validate:"omitempty,max=100"`
	Price    *decimal.Decimal `json:"price"`
	Stock    *int             `json:"stock" validate:"omitempty,min=0,max=1000000000"`
}

// StockOperationRequest cantidad para venta o reposición.
type StockOperationRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=1000000"`
}

// PriceItemResponse salida de un artículo.
type PriceItemResponse struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Brand          string          `json:"brand"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	SoldCount      int             `json:"sold_count"`
	PurchasedCount int             `json:"purchased_count"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PriceItemListQuery filtros de listado.
type PriceItemListQuery struct {
	Search   string
	Category string
	PageRequest
}

// PriceItemListResponse lista paginada de artículos.
type PriceItemListResponse struct {
	Items []PriceItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
