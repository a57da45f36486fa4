package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest entrada para registrar una transacción.
// El propietario nunca se toma del cuerpo: se asigna desde el token.
type CreateTransactionRequest struct {
	Type        string          `json:"type" validate:"required,oneof=sale income expense"`
	Product     string          `json:"product" validate:"max=200"`
	Quantity    int             `json:"quantity" validate:"min=0,max=1000000"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note" validate:"max=500"`
	Description string          `json:"description" validate:"max=500"`
}

// UpdateTransactionRequest ajuste de cantidad (solo owner).
type UpdateTransactionRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=1000000"`
}

// TransactionResponse salida de una transacción.
type TransactionResponse struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	OwnerID   int64           `json:"owner_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionListQuery filtros de listado.
type TransactionListQuery struct {
	Type string
	From *time.Time
	To   *time.Time
	PageRequest
}

// TransactionListResponse lista paginada de transacciones.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
